package routes

import (
	"raspa/controllers/admin"
	"raspa/controllers/affiliate"
	"raspa/controllers/callback/game"
	"raspa/controllers/callback/pixhook"
	"raspa/controllers/payment"
	"raspa/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Post("/payments/order", payment.CreateOrder)
	app.Get("/payments/status/:external_id", payment.Status)

	// provider callbacks
	app.Post("/callback/pix", middlewares.PixWebhookAuth(), pixhook.Webhook)
	app.Post("/callback/game", middlewares.GameAuth(), game.Result)

	affroutes := app.Group("/affiliate")
	affroutes.Post("/withdraws", affiliate.RequestWithdraw)
	affroutes.Post("/withdraws/cancel", affiliate.CancelWithdraw)
	affroutes.Post("/commissions", affiliate.ListCommissions)

	adminroutes := app.Group("/admin", middlewares.AdminAuth())
	adminroutes.Post("/accounts", admin.RegisterUser)
	adminroutes.Post("/affiliates", admin.RegisterAffiliate)
	adminroutes.Post("/affiliates/update", admin.UpdateAffiliate)
	adminroutes.Post("/managers", admin.RegisterManager)
	adminroutes.Post("/withdraws/process", admin.ProcessWithdraw)
	adminroutes.Get("/settings", admin.GetSettings)
	adminroutes.Post("/settings", admin.UpdateSettings)
}
