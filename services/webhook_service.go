package services

import (
	"context"
	"errors"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/carriers"
	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Webhook processing outcomes. Recognized-but-unmapped and already-applied
// events are acknowledged with 200 so carriers do not retry-storm.
const (
	WebhookOutcomeApplied        = "applied"
	WebhookOutcomeAlreadyApplied = "already_applied"
	WebhookOutcomeIgnored        = "ignored"
)

// WebhookResult is the structured body returned to the carrier.
type WebhookResult struct {
	Outcome        string `json:"status"`
	Carrier        string `json:"carrier"`
	EventType      string `json:"event_type,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	OrderStatus    string `json:"order_status,omitempty"`
}

// WebhookService translates carrier webhook payloads into order status changes.
// Webhooks are a system actor: the mapped status is applied through the same
// conditional-update write path the status service uses, with history recorded
// as changed_by=webhook, but without transition-table permission checks.
type WebhookService struct {
	orders    repository.OrderRepository
	history   repository.HistoryRepository
	anomalies *AnomalyService
	notifier  Notifier
	logger    *zap.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	orders repository.OrderRepository,
	history repository.HistoryRepository,
	anomalies *AnomalyService,
	notifier Notifier,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		orders:    orders,
		history:   history,
		anomalies: anomalies,
		notifier:  notifier,
		logger:    logger,
	}
}

// ProcessCarrierWebhook parses, resolves, maps and applies one carrier webhook.
func (s *WebhookService) ProcessCarrierWebhook(ctx context.Context, carrierName string, payload []byte) (*WebhookResult, *ServiceError) {
	carrier := carriers.ForCarrier(carrierName)

	event, err := carrier.Parse(payload)
	if err != nil {
		return nil, newError(400, CodeInvalidPayload, "Invalid payload")
	}

	order, err := s.orders.FindByTrackingNumber(ctx, event.TrackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(404, CodeNotFound, "Order not found for tracking number")
		}
		s.logger.Error("Failed to resolve order by tracking number",
			zap.String("tracking_number", event.TrackingNumber),
			zap.Error(err),
		)
		return nil, newError(500, CodeInternal, "Failed to resolve order")
	}

	mapping, ok := carrier.Map(event)
	if !ok {
		// Unrecognized-but-harmless events must not error.
		s.logger.Info("Unmapped carrier event acknowledged",
			zap.String("carrier", carrier.Name()),
			zap.String("event_type", event.EventType),
			zap.String("tracking_number", event.TrackingNumber),
		)
		return &WebhookResult{
			Outcome:        WebhookOutcomeIgnored,
			Carrier:        carrier.Name(),
			EventType:      event.EventType,
			TrackingNumber: event.TrackingNumber,
		}, nil
	}

	// Duplicate delivery pre-check: carriers retry, and the same event must
	// not append a second history row or double-increment anomaly counters.
	if order.OrderStatus == mapping.OrderStatus {
		return &WebhookResult{
			Outcome:        WebhookOutcomeAlreadyApplied,
			Carrier:        carrier.Name(),
			EventType:      event.EventType,
			TrackingNumber: event.TrackingNumber,
			OrderStatus:    order.OrderStatus,
		}, nil
	}

	updates := map[string]interface{}{
		"order_status": mapping.OrderStatus,
	}
	if coarse, mapped := models.CoarseStatusFor(mapping.OrderStatus); mapped {
		updates["status"] = coarse
	}
	if mapping.OrderStatus == models.OrderStatusDelivered {
		deliveredAt := event.Timestamp
		if deliveredAt.IsZero() {
			deliveredAt = time.Now()
		}
		updates["actual_delivery"] = &deliveredAt
	}

	rows, err := s.orders.UpdateStatusIfCurrent(ctx, order.ID, order.OrderStatus, updates)
	if err != nil {
		s.logger.Error("Failed to apply carrier event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, newError(500, CodeInternal, "Failed to apply carrier event")
	}
	if rows == 0 {
		// A concurrent writer (duplicate webhook, admin override) got there
		// first; acknowledge without re-applying.
		return &WebhookResult{
			Outcome:        WebhookOutcomeAlreadyApplied,
			Carrier:        carrier.Name(),
			EventType:      event.EventType,
			TrackingNumber: event.TrackingNumber,
			OrderStatus:    mapping.OrderStatus,
		}, nil
	}

	entry := &models.OrderStatusHistory{
		OrderID:        order.ID,
		PreviousStatus: order.OrderStatus,
		NewStatus:      mapping.OrderStatus,
		ChangedBy:      models.ActorWebhook,
		ReasonCode:     carrier.Name() + ":" + event.EventType,
		ReasonMessage:  event.Details,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append webhook history", zap.Error(err))
	}

	if mapping.Anomaly != nil {
		if _, svcErr := s.anomalies.Record(ctx, &RecordAnomalyRequest{
			OrderID:     order.ID,
			Type:        mapping.Anomaly.Type,
			Severity:    mapping.Anomaly.Severity,
			Title:       mapping.Anomaly.Title,
			Description: event.Details,
			DetectedBy:  models.ActorWebhook,
		}); svcErr != nil {
			// The status change is already applied; a failed anomaly insert is
			// logged rather than failing the webhook response.
			s.logger.Error("Failed to record webhook anomaly", zap.String("order_id", order.ID.String()))
		}
	}

	if mapping.OrderStatus == models.OrderStatusDelivered || mapping.OrderStatus == models.OrderStatusDeliveryFailed {
		eventType := "order_delivered"
		if mapping.OrderStatus == models.OrderStatusDeliveryFailed {
			eventType = "order_delivery_failed"
		}
		userID := ""
		if order.UserID != nil {
			userID = order.UserID.String()
		}
		s.notifier.Publish(ctx, order.ID.String(), models.DeliveryNotificationEvent{
			EventType:      eventType,
			OrderID:        order.ID.String(),
			OrderNumber:    order.OrderNumber,
			UserID:         userID,
			Carrier:        carrier.Name(),
			TrackingNumber: event.TrackingNumber,
			Status:         mapping.OrderStatus,
			Location:       event.Location,
			Timestamp:      time.Now().UTC(),
		})
	}

	s.logger.Info("Carrier event applied",
		zap.String("carrier", carrier.Name()),
		zap.String("tracking_number", event.TrackingNumber),
		zap.String("from", order.OrderStatus),
		zap.String("to", mapping.OrderStatus),
	)

	return &WebhookResult{
		Outcome:        WebhookOutcomeApplied,
		Carrier:        carrier.Name(),
		EventType:      event.EventType,
		TrackingNumber: event.TrackingNumber,
		OrderStatus:    mapping.OrderStatus,
	}, nil
}
