package routes

import (
	"github.com/benmed00/lucid-web-craftsman-sub003/controllers"
	"github.com/benmed00/lucid-web-craftsman-sub003/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes sets up the order lifecycle routes. Carrier webhooks are
// unauthenticated at this layer; everything else requires a principal.
func RegisterOrderRoutes(
	r *gin.Engine,
	serviceToken string,
	status *controllers.StatusController,
	payments *controllers.PaymentController,
	webhooks *controllers.WebhookController,
	anomalies *controllers.AnomalyController,
) {
	// Carrier webhooks: authenticated at the edge, not here
	r.POST("/webhooks/carrier/:carrier", webhooks.HandleCarrierWebhook)
	r.POST("/webhooks/carrier", webhooks.HandleCarrierWebhook)

	auth := middleware.AuthMiddleware(serviceToken)

	orders := r.Group("/orders")
	orders.Use(auth)
	orders.POST("/:id/status", status.UpdateStatus)
	orders.GET("/:id/transitions", status.ListTransitions)
	orders.GET("/:id/history", status.ListHistory)
	orders.GET("/:id/anomalies", anomalies.ListByOrder)
	orders.POST("/:id/anomalies", middleware.AdminOnly(), anomalies.Record)

	pay := r.Group("/payments")
	pay.Use(auth)
	pay.POST("/paypal/verify", payments.VerifyPayPal)
	pay.POST("/stripe/verify", payments.VerifyStripe)

	anom := r.Group("/anomalies")
	anom.Use(auth, middleware.AdminOnly())
	anom.POST("/:id/resolve", anomalies.Resolve)
}
