package jobs

import (
	"time"

	"raspa/services"
	tasks "raspa/task"
)

// StartScheduler runs the background sweeps: overdue-order expiry on a short
// tick and webhook-log cleanup on a long one. A failed sweep is simply retried
// on the next tick.
func StartScheduler() {
	tickerExpire := time.NewTicker(30 * time.Second)
	go func() {
		for {
			<-tickerExpire.C
			services.ExpireDue()
		}
	}()

	tickerCleanup := time.NewTicker(6 * time.Hour)
	go func() {
		for {
			<-tickerCleanup.C
			tasks.CleanupOldWebhookEvents()
		}
	}()
}
