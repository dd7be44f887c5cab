package repository

import (
	"context"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines data-access operations for orders. The two
// conditional updates are the concurrency primitives: their rows-affected
// count is the CAS success signal, so racing writers never need an in-process
// lock; the database row is the arbiter.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)

	// UpdateStatusIfCurrent applies updates only while order_status still equals
	// expected. Returns the number of rows changed (0 or 1).
	UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected string, updates map[string]interface{}) (int64, error)

	// MarkPaidIfPending settles a payment with `WHERE status = 'pending'` as the
	// optimistic lock. Zero rows affected means a concurrent caller already
	// settled the order.
	MarkPaidIfPending(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)

	// IncrementAnomalyCounters bumps anomaly_count, sets has_anomaly, and flips
	// requires_attention when asked.
	IncrementAnomalyCounters(ctx context.Context, id uuid.UUID, requiresAttention bool, attentionReason string) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("tracking_number = ?", trackingNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected string, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *GormOrderRepository) MarkPaidIfPending(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *GormOrderRepository) IncrementAnomalyCounters(ctx context.Context, id uuid.UUID, requiresAttention bool, attentionReason string) error {
	updates := map[string]interface{}{
		"has_anomaly":   true,
		"anomaly_count": gorm.Expr("anomaly_count + 1"),
	}
	if requiresAttention {
		updates["requires_attention"] = true
		updates["attention_reason"] = attentionReason
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
