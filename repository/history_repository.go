package repository

import (
	"context"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository appends to and reads the order_status_history audit trail.
// Rows are never updated or deleted.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.OrderStatusHistory) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
}

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Create(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormHistoryRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
