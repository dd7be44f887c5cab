package controllers

import (
	"net/http"

	"github.com/benmed00/lucid-web-craftsman-sub003/middleware"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentController exposes the payment verification endpoints. One handler per
// provider; both funnel into the same reconciliation service.
type PaymentController struct {
	payments *services.PaymentService
	paypal   services.PaymentProvider
	stripe   services.PaymentProvider
	logger   *zap.Logger
}

func NewPaymentController(payments *services.PaymentService, paypal, stripe services.PaymentProvider, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, paypal: paypal, stripe: stripe, logger: logger}
}

type verifyPayPalPayload struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
	OrderID       string `json:"order_id" binding:"required"`
}

type verifyStripePayload struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	OrderID         string `json:"order_id" binding:"required"`
}

// VerifyPayPal handles POST /payments/paypal/verify.
func (ctl *PaymentController) VerifyPayPal(c *gin.Context) {
	if ctl.paypal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PayPal is not configured", "code": services.CodeProviderUnavailable})
		return
	}

	var payload verifyPayPalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": services.CodeInvalidPayload})
		return
	}
	ctl.verify(c, ctl.paypal, payload.PayPalOrderID, payload.OrderID)
}

// VerifyStripe handles POST /payments/stripe/verify.
func (ctl *PaymentController) VerifyStripe(c *gin.Context) {
	if ctl.stripe == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe is not configured", "code": services.CodeProviderUnavailable})
		return
	}

	var payload verifyStripePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": services.CodeInvalidPayload})
		return
	}
	ctl.verify(c, ctl.stripe, payload.PaymentIntentID, payload.OrderID)
}

func (ctl *PaymentController) verify(c *gin.Context, provider services.PaymentProvider, providerOrderID, rawOrderID string) {
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id", "code": services.CodeInvalidPayload})
		return
	}

	caller := services.Caller{Internal: middleware.IsInternal(c)}
	if userID, ok := middleware.GetUserID(c); ok {
		caller.UserID = userID
	}

	result, svcErr := ctl.payments.VerifyPayment(c.Request.Context(), provider, &services.VerifyPaymentRequest{
		ProviderOrderID: providerOrderID,
		OrderID:         orderID,
		Caller:          caller,
	})
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
		return
	}
	c.JSON(http.StatusOK, result)
}
