package repository

import (
	"context"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnomalyRepository persists order anomalies. Resolve and IncrementRetry are
// the only mutations; anomalies are never deleted.
type AnomalyRepository interface {
	Create(ctx context.Context, anomaly *models.OrderAnomaly) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderAnomaly, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderAnomaly, error)

	// Resolve sets the resolution fields only while resolved_at is still NULL,
	// so concurrent resolve calls settle on the first writer. Returns the
	// rows-affected count.
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, notes, action string) (int64, error)

	// IncrementRetry advances the advisory retry bookkeeping.
	IncrementRetry(ctx context.Context, id uuid.UUID, nextRetryAt *time.Time) error
}

// GormAnomalyRepository implements AnomalyRepository using GORM.
type GormAnomalyRepository struct {
	db *gorm.DB
}

// NewGormAnomalyRepository creates a new GormAnomalyRepository.
func NewGormAnomalyRepository(db *gorm.DB) AnomalyRepository {
	return &GormAnomalyRepository{db: db}
}

func (r *GormAnomalyRepository) Create(ctx context.Context, anomaly *models.OrderAnomaly) error {
	return r.db.WithContext(ctx).Create(anomaly).Error
}

func (r *GormAnomalyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderAnomaly, error) {
	var a models.OrderAnomaly
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAnomalyRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderAnomaly, error) {
	var anomalies []models.OrderAnomaly
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&anomalies).Error; err != nil {
		return nil, err
	}
	return anomalies, nil
}

func (r *GormAnomalyRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, notes, action string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.OrderAnomaly{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Updates(map[string]interface{}{
			"resolved_at":       &now,
			"resolved_by":       resolvedBy,
			"resolution_notes":  notes,
			"resolution_action": action,
		})
	return res.RowsAffected, res.Error
}

func (r *GormAnomalyRepository) IncrementRetry(ctx context.Context, id uuid.UUID, nextRetryAt *time.Time) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.OrderAnomaly{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"next_retry_at": nextRetryAt,
			"updated_at":    now,
		}).Error
}
