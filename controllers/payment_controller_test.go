package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/controllers"
	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/routes"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubProvider struct {
	name   string
	order  *services.ProviderOrder
	getErr error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) GetOrder(_ context.Context, _ string) (*services.ProviderOrder, error) {
	return p.order, p.getErr
}

func (p *stubProvider) Capture(_ context.Context, _ string) (*services.ProviderCapture, error) {
	return &services.ProviderCapture{Status: services.ProviderStatusCompleted, TransactionID: "CAP-1"}, nil
}

func setupPaymentRouter(orders *memOrderRepo, paypal services.PaymentProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	cfg := services.PaymentConfig{AmountEpsilon: decimal.NewFromFloat(0.02), ProviderTimeout: 5 * time.Second}
	paymentService := services.NewPaymentService(orders, &memHistoryRepo{}, &noopNotifier{}, cfg, logger)

	statusService := services.NewStatusService(orders, &memTransitionRepo{}, &memHistoryRepo{}, logger)
	anomalyService := services.NewAnomalyService(orders, newMemAnomalyRepo(), logger)
	webhookService := services.NewWebhookService(orders, &memHistoryRepo{}, anomalyService, &noopNotifier{}, logger)

	r := gin.New()
	routes.RegisterOrderRoutes(r, testServiceToken,
		controllers.NewStatusController(statusService, &noopNotifier{}, logger),
		controllers.NewPaymentController(paymentService, paypal, nil, logger),
		controllers.NewWebhookController(webhookService, logger),
		controllers.NewAnomalyController(anomalyService, logger),
	)
	return r
}

func pendingPaymentOrder(userID *uuid.UUID) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-2026-000456",
		UserID:      userID,
		Amount:      4999,
		Currency:    "EUR",
		Status:      models.StatusPending,
		OrderStatus: models.OrderStatusPaymentPending,
	}
}

func TestVerifyPayPal_Success(t *testing.T) {
	userID := uuid.New()
	order := pendingPaymentOrder(&userID)
	orders := newMemOrderRepo(order)
	provider := &stubProvider{name: "paypal", order: &services.ProviderOrder{
		ID:       "PAYPAL-123",
		Status:   services.ProviderStatusCompleted,
		Amount:   decimal.NewFromFloat(49.99),
		Currency: "EUR",
	}}
	r := setupPaymentRouter(orders, provider)

	w := postJSON(r, "/payments/paypal/verify",
		`{"paypal_order_id": "PAYPAL-123", "order_id": "`+order.ID.String()+`"}`,
		map[string]string{"X-User-ID": userID.String()})

	assert.Equal(t, http.StatusOK, w.Code)

	var result services.VerifyPaymentResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Settled)
	assert.Equal(t, models.StatusPaid, orders.orders[order.ID].Status)
	assert.Equal(t, "PAYPAL-123", orders.orders[order.ID].PaymentReference)
}

func TestVerifyPayPal_RepeatVerificationIdempotent(t *testing.T) {
	userID := uuid.New()
	order := pendingPaymentOrder(&userID)
	orders := newMemOrderRepo(order)
	provider := &stubProvider{name: "paypal", order: &services.ProviderOrder{
		ID:       "PAYPAL-123",
		Status:   services.ProviderStatusCompleted,
		Amount:   decimal.NewFromFloat(49.99),
		Currency: "EUR",
	}}
	r := setupPaymentRouter(orders, provider)

	body := `{"paypal_order_id": "PAYPAL-123", "order_id": "` + order.ID.String() + `"}`
	headers := map[string]string{"X-User-ID": userID.String()}

	first := postJSON(r, "/payments/paypal/verify", body, headers)
	second := postJSON(r, "/payments/paypal/verify", body, headers)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	var result services.VerifyPaymentResult
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &result))
	assert.True(t, result.Settled)
	assert.Equal(t, "Payment already verified", result.Message)
}

func TestVerifyPayPal_ForeignOrderForbidden(t *testing.T) {
	owner := uuid.New()
	order := pendingPaymentOrder(&owner)
	r := setupPaymentRouter(newMemOrderRepo(order), &stubProvider{name: "paypal"})

	w := postJSON(r, "/payments/paypal/verify",
		`{"paypal_order_id": "PAYPAL-123", "order_id": "`+order.ID.String()+`"}`,
		map[string]string{"X-User-ID": uuid.NewString()})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyStripe_NotConfigured(t *testing.T) {
	r := setupPaymentRouter(newMemOrderRepo(), &stubProvider{name: "paypal"})

	w := postJSON(r, "/payments/stripe/verify",
		`{"payment_intent_id": "pi_123", "order_id": "`+uuid.NewString()+`"}`,
		map[string]string{"Authorization": "Bearer " + testServiceToken})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestVerifyPayPal_MissingBodyRejected(t *testing.T) {
	r := setupPaymentRouter(newMemOrderRepo(), &stubProvider{name: "paypal"})

	w := postJSON(r, "/payments/paypal/verify", `{}`,
		map[string]string{"Authorization": "Bearer " + testServiceToken})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
