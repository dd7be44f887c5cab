package repository

import (
	"context"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"gorm.io/gorm"
)

// TransitionRepository reads the order_state_transitions reference table.
type TransitionRepository interface {
	// Find returns the transition for the (from, to) edge, or
	// gorm.ErrRecordNotFound when the edge is not legal.
	Find(ctx context.Context, from, to string) (*models.OrderStateTransition, error)

	// ListFrom returns all legal outgoing edges for a status.
	ListFrom(ctx context.Context, from string) ([]models.OrderStateTransition, error)
}

// GormTransitionRepository implements TransitionRepository using GORM.
type GormTransitionRepository struct {
	db *gorm.DB
}

// NewGormTransitionRepository creates a new GormTransitionRepository.
func NewGormTransitionRepository(db *gorm.DB) TransitionRepository {
	return &GormTransitionRepository{db: db}
}

func (r *GormTransitionRepository) Find(ctx context.Context, from, to string) (*models.OrderStateTransition, error) {
	var t models.OrderStateTransition
	if err := r.db.WithContext(ctx).
		Where("from_status = ? AND to_status = ?", from, to).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTransitionRepository) ListFrom(ctx context.Context, from string) ([]models.OrderStateTransition, error) {
	var transitions []models.OrderStateTransition
	if err := r.db.WithContext(ctx).
		Where("from_status = ?", from).
		Order("to_status ASC").
		Find(&transitions).Error; err != nil {
		return nil, err
	}
	return transitions, nil
}
