package services

import (
	"context"
	"errors"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordAnomalyRequest describes a newly detected exceptional condition.
type RecordAnomalyRequest struct {
	OrderID     uuid.UUID
	Type        string
	Severity    string
	Title       string
	Description string
	DetectedBy  string
	Metadata    map[string]interface{}
}

// AnomalyService tracks and resolves exceptional order conditions. Retry
// bookkeeping is advisory state for an external scheduler; this service does
// not run the retries itself.
type AnomalyService struct {
	orders    repository.OrderRepository
	anomalies repository.AnomalyRepository
	logger    *zap.Logger
}

// NewAnomalyService creates a new AnomalyService.
func NewAnomalyService(orders repository.OrderRepository, anomalies repository.AnomalyRepository, logger *zap.Logger) *AnomalyService {
	return &AnomalyService{
		orders:    orders,
		anomalies: anomalies,
		logger:    logger,
	}
}

// Record inserts the anomaly and bumps the order's anomaly counters.
// requires_attention is raised only for high or critical severity.
func (s *AnomalyService) Record(ctx context.Context, req *RecordAnomalyRequest) (*models.OrderAnomaly, *ServiceError) {
	anomaly := &models.OrderAnomaly{
		OrderID:     req.OrderID,
		Type:        req.Type,
		Severity:    req.Severity,
		Title:       req.Title,
		Description: req.Description,
		DetectedBy:  req.DetectedBy,
		Metadata:    marshalMetadata(req.Metadata),
	}

	if err := s.anomalies.Create(ctx, anomaly); err != nil {
		s.logger.Error("Failed to record anomaly",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
		return nil, newError(500, CodeInternal, "Failed to record anomaly")
	}

	requiresAttention := models.SeverityRequiresAttention(req.Severity)
	if err := s.orders.IncrementAnomalyCounters(ctx, req.OrderID, requiresAttention, req.Title); err != nil {
		// The anomaly row itself is persisted; stale counters are tolerable.
		s.logger.Error("Failed to update order anomaly counters",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
	}

	s.logger.Warn("Order anomaly recorded",
		zap.String("order_id", req.OrderID.String()),
		zap.String("type", req.Type),
		zap.String("severity", req.Severity),
		zap.String("title", req.Title),
	)

	return anomaly, nil
}

// Resolve marks an anomaly resolved. Resolving an already-resolved anomaly is
// a no-op success.
func (s *AnomalyService) Resolve(ctx context.Context, anomalyID, resolvedBy uuid.UUID, notes, action string) (*models.OrderAnomaly, *ServiceError) {
	rows, err := s.anomalies.Resolve(ctx, anomalyID, resolvedBy, notes, action)
	if err != nil {
		s.logger.Error("Failed to resolve anomaly", zap.String("anomaly_id", anomalyID.String()), zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to resolve anomaly")
	}

	anomaly, err := s.anomalies.FindByID(ctx, anomalyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(404, CodeNotFound, "Anomaly not found")
		}
		return nil, newError(500, CodeInternal, "Failed to load anomaly")
	}

	if rows > 0 {
		s.logger.Info("Anomaly resolved",
			zap.String("anomaly_id", anomalyID.String()),
			zap.String("resolved_by", resolvedBy.String()),
			zap.String("action", action),
		)
	}

	return anomaly, nil
}

// IncrementRetry advances the advisory retry bookkeeping for an anomaly.
func (s *AnomalyService) IncrementRetry(ctx context.Context, anomalyID uuid.UUID, nextRetryAt *time.Time) *ServiceError {
	if err := s.anomalies.IncrementRetry(ctx, anomalyID, nextRetryAt); err != nil {
		s.logger.Error("Failed to increment anomaly retry count", zap.Error(err))
		return newError(500, CodeInternal, "Failed to update retry bookkeeping")
	}
	return nil
}

// ListByOrder returns all anomalies recorded for an order.
func (s *AnomalyService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAnomaly, *ServiceError) {
	anomalies, err := s.anomalies.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, newError(500, CodeInternal, "Failed to list anomalies")
	}
	return anomalies, nil
}
