package services

import (
	"log"
	"time"

	"raspa/database"
	"raspa/models"
)

// ConfirmPaid is the single funnel both confirmation channels call: the
// provider webhook and the poll watcher. MarkSuccess's conditional update
// makes the race between them safe, and only the winning call pushes the
// deposit event into the commission pipeline.
func ConfirmPaid(externalID, endToEndID string) (*models.PaymentOrder, error) {
	order, first, err := MarkSuccess(externalID, endToEndID)
	if err != nil {
		return nil, err
	}

	if first {
		log.Printf("✅ Order %s confirmed, amount %s", externalID, order.Amount.StringFixed(2))

		if err := ProcessMonetaryEvent(MonetaryEvent{
			EventID:       externalID,
			UserAccountID: order.UserAccountID,
			NetAmount:     order.Amount,
			Type:          EventTypeDeposit,
		}); err != nil {
			// the wallet credit is committed and stays; later signals see
			// first == false and never re-emit this event, so a failure here
			// needs an operator replay of ProcessMonetaryEvent
			log.Printf("❌ Commission run failed for order %s: %v", externalID, err)
		}
	}

	return order, nil
}

// WatchOrder polls the gateway for one order until it reaches a terminal
// state or its expiry passes. One goroutine per awaiting order; the webhook
// usually wins and the watcher just observes the terminal status and stops.
func WatchOrder(externalID string) {
	go func() {
		settings, err := GetSettings()
		if err != nil {
			log.Println("❌ Watcher could not read settings:", err)
			return
		}

		interval := time.Duration(settings.PollIntervalSeconds) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			var order models.PaymentOrder
			if err := database.DB.Where("external_id = ?", externalID).First(&order).Error; err != nil {
				log.Printf("❌ Watcher lost order %s: %v", externalID, err)
				return
			}

			if models.IsTerminalOrderStatus(order.Status) {
				return
			}

			if time.Now().After(order.ExpiresAt) {
				if err := Expire(externalID); err != nil {
					log.Printf("❌ Failed to expire order %s: %v", externalID, err)
				}
				return
			}

			gw := activeGateway()
			if gw == nil {
				return
			}

			status, err := gw.GetCharge(externalID)
			if err != nil {
				log.Printf("⚠️  Poll failed for order %s: %v", externalID, err)
				continue
			}

			if status.Paid {
				if _, err := ConfirmPaid(externalID, status.EndToEndID); err != nil {
					log.Printf("❌ Poll confirmation failed for order %s: %v", externalID, err)
				}
				return
			}
			if status.Failed {
				if err := MarkFailed(externalID); err != nil {
					log.Printf("❌ Failed to mark order %s failed: %v", externalID, err)
				}
				return
			}
		}
	}()
}

// ResumeWatchers restarts poll watchers for orders that were still awaiting
// confirmation when the process last stopped.
func ResumeWatchers() {
	var externalIDs []string
	if err := database.DB.Model(&models.PaymentOrder{}).
		Where("status = ?", models.OrderStatusAwaiting).
		Pluck("external_id", &externalIDs).Error; err != nil {
		log.Println("❌ Failed to resume order watchers:", err)
		return
	}

	for _, id := range externalIDs {
		WatchOrder(id)
	}
	if len(externalIDs) > 0 {
		log.Printf("✅ Resumed %d order watchers", len(externalIDs))
	}
}
