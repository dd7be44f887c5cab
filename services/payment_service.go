package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider-agnostic payment statuses.
const (
	ProviderStatusCreated   = "created"
	ProviderStatusApproved  = "approved" // authorized but not yet captured
	ProviderStatusCompleted = "completed"
)

// ProviderOrder is a payment provider's view of an order.
type ProviderOrder struct {
	ID       string
	Status   string          // created | approved | completed | raw provider status
	Amount   decimal.Decimal // major currency units
	Currency string
}

// ProviderCapture is the outcome of a capture request.
type ProviderCapture struct {
	Status        string
	TransactionID string
}

// PaymentProvider abstracts an external payment provider (PayPal, Stripe).
// Implementations must honor context cancellation so the verifier's timeout
// bounds every outbound call.
type PaymentProvider interface {
	Name() string
	GetOrder(ctx context.Context, providerOrderID string) (*ProviderOrder, error)
	Capture(ctx context.Context, providerOrderID string) (*ProviderCapture, error)
}

// Caller identifies who is asking for verification: a trusted internal
// principal, or an authenticated end user.
type Caller struct {
	Internal bool
	UserID   *uuid.UUID
}

// VerifyPaymentRequest reconciles one provider order against one local order.
type VerifyPaymentRequest struct {
	ProviderOrderID string
	OrderID         uuid.UUID
	Caller          Caller
}

// VerifyPaymentResult is the structured verification outcome. Settled is false
// when the provider reports a non-completed status; the caller may poll.
type VerifyPaymentResult struct {
	Settled       bool   `json:"success"`
	Status        string `json:"status"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// PaymentConfig holds the tunables of the verifier.
type PaymentConfig struct {
	// AmountEpsilon is the tolerated difference, in major currency units,
	// between the provider-reported and server-stored amounts.
	AmountEpsilon decimal.Decimal
	// ProviderTimeout bounds each outbound provider call.
	ProviderTimeout time.Duration
}

// PaymentService reconciles an external payment against the local order exactly
// once. The server-stored amount is ground truth; settlement is applied with an
// optimistic lock so concurrent verification calls (checkout redirect racing a
// provider webhook, duplicated client retries) never double-apply.
type PaymentService struct {
	orders   repository.OrderRepository
	history  repository.HistoryRepository
	notifier Notifier
	cfg      PaymentConfig
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	orders repository.OrderRepository,
	history repository.HistoryRepository,
	notifier Notifier,
	cfg PaymentConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		history:  history,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// VerifyPayment runs the reconciliation algorithm against the given provider.
func (s *PaymentService) VerifyPayment(ctx context.Context, provider PaymentProvider, req *VerifyPaymentRequest) (*VerifyPaymentResult, *ServiceError) {
	if !req.Caller.Internal && req.Caller.UserID == nil {
		return nil, newError(401, CodeUnauthorized, "Authentication required")
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(404, CodeNotFound, "Order not found")
		}
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to load order")
	}

	if !req.Caller.Internal {
		if order.UserID == nil || *order.UserID != *req.Caller.UserID {
			return nil, newError(403, CodeForbidden, "Order does not belong to caller")
		}
	}

	// Idempotency short-circuit: a previously settled order is reported as
	// success without contacting the provider or touching the row.
	if order.Status == models.StatusPaid {
		return &VerifyPaymentResult{
			Settled:       true,
			Status:        models.StatusPaid,
			OrderID:       order.ID.String(),
			TransactionID: order.PaymentReference,
			Message:       "Payment already verified",
		}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	providerOrder, err := provider.GetOrder(callCtx, req.ProviderOrderID)
	if err != nil {
		s.logger.Error("Provider order lookup failed",
			zap.String("provider", provider.Name()),
			zap.String("provider_order_id", req.ProviderOrderID),
			zap.Error(err),
		)
		return nil, newError(502, CodeProviderUnavailable, "Payment provider unavailable: "+err.Error())
	}

	// The server-stored amount, not any client-supplied value, is ground
	// truth. A difference beyond the epsilon is a hard failure with no
	// mutation.
	serverAmount := decimal.NewFromInt(order.Amount).Div(decimal.NewFromInt(100))
	if !strings.EqualFold(providerOrder.Currency, order.Currency) {
		return nil, newError(409, CodeAmountMismatch,
			"Currency mismatch: provider reported "+providerOrder.Currency+", order is in "+order.Currency)
	}
	if serverAmount.Sub(providerOrder.Amount).Abs().GreaterThan(s.cfg.AmountEpsilon) {
		s.logger.Warn("Payment amount mismatch",
			zap.String("order_id", order.ID.String()),
			zap.String("server_amount", serverAmount.String()),
			zap.String("provider_amount", providerOrder.Amount.String()),
		)
		return nil, newError(409, CodeAmountMismatch,
			"Provider amount "+providerOrder.Amount.String()+" does not match order amount "+serverAmount.String())
	}

	transactionID := providerOrder.ID
	status := providerOrder.Status

	if status == ProviderStatusApproved {
		capture, err := provider.Capture(callCtx, req.ProviderOrderID)
		if err != nil {
			// Surface the provider's error without mutating the order.
			s.logger.Error("Payment capture failed",
				zap.String("provider", provider.Name()),
				zap.String("provider_order_id", req.ProviderOrderID),
				zap.Error(err),
			)
			return nil, newError(502, CodeCaptureFailed, "Capture failed: "+err.Error())
		}
		status = capture.Status
		if capture.TransactionID != "" {
			transactionID = capture.TransactionID
		}
	}

	if status != ProviderStatusCompleted {
		// Not an error: report the raw provider status and let the caller poll.
		return &VerifyPaymentResult{
			Settled: false,
			Status:  status,
			OrderID: order.ID.String(),
			Message: "Payment not completed yet",
		}, nil
	}

	updates := map[string]interface{}{
		"status":            models.StatusPaid,
		"order_status":      models.OrderStatusPaid,
		"payment_method":    provider.Name(),
		"payment_reference": transactionID,
	}
	rows, err := s.orders.MarkPaidIfPending(ctx, order.ID, updates)
	if err != nil {
		s.logger.Error("Failed to settle order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to settle order")
	}
	if rows == 0 {
		// A concurrent verification already settled it. The loser of the race
		// reports success too; the charge was applied exactly once.
		return &VerifyPaymentResult{
			Settled:       true,
			Status:        models.StatusPaid,
			OrderID:       order.ID.String(),
			TransactionID: transactionID,
			Message:       "Payment already verified",
		}, nil
	}

	entry := &models.OrderStatusHistory{
		OrderID:        order.ID,
		PreviousStatus: order.OrderStatus,
		NewStatus:      models.OrderStatusPaid,
		ChangedBy:      models.ActorSystem,
		ReasonCode:     provider.Name() + "_capture",
		ReasonMessage:  "Payment captured via " + provider.Name(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append payment history", zap.Error(err))
	}

	userID := ""
	if order.UserID != nil {
		userID = order.UserID.String()
	}
	s.notifier.Publish(ctx, order.ID.String(), models.PaymentCapturedEvent{
		EventType:     "payment_captured",
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		UserID:        userID,
		Provider:      provider.Name(),
		TransactionID: transactionID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Timestamp:     time.Now().UTC(),
	})

	s.logger.Info("Payment verified and settled",
		zap.String("order_id", order.ID.String()),
		zap.String("provider", provider.Name()),
		zap.String("transaction_id", transactionID),
	)

	return &VerifyPaymentResult{
		Settled:       true,
		Status:        models.StatusPaid,
		OrderID:       order.ID.String(),
		TransactionID: transactionID,
	}, nil
}
