package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UpdateStatusRequest carries one requested status change.
type UpdateStatusRequest struct {
	OrderID       uuid.UUID
	NewStatus     string
	Actor         string // system | admin | customer | webhook | scheduler
	ActorUserID   *uuid.UUID
	ReasonCode    string
	ReasonMessage string
	Comment       string
	Metadata      map[string]interface{}
	RequestIP     string
	UserAgent     string
}

// UpdateStatusResult reports an applied (or idempotently skipped) transition.
// OrderNumber and UserID are carried for the caller's notification dispatch
// and are not part of the response body.
type UpdateStatusResult struct {
	OrderID    uuid.UUID  `json:"order_id"`
	OldStatus  string     `json:"old_status"`
	NewStatus  string     `json:"new_status"`
	HistoryID  *uuid.UUID `json:"history_id,omitempty"`
	AutoNotify bool       `json:"auto_notify"`
	NoOp       bool       `json:"no_op"`

	OrderNumber string `json:"-"`
	UserID      string `json:"-"`
}

// StatusService is the sole writer of order_status. Every change is validated
// against the transition table, applied with a conditional update, and recorded
// in the status history. Notification dispatch is the caller's responsibility;
// the service only reports auto_notify_customer from the matched edge.
type StatusService struct {
	orders      repository.OrderRepository
	transitions repository.TransitionRepository
	history     repository.HistoryRepository
	logger      *zap.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(
	orders repository.OrderRepository,
	transitions repository.TransitionRepository,
	history repository.HistoryRepository,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		orders:      orders,
		transitions: transitions,
		history:     history,
		logger:      logger,
	}
}

// UpdateOrderStatus validates and applies a status change.
//
// Re-applying the same status when the order is already there is a no-op
// success, not an error: webhook and manual-retry paths may race or duplicate.
func (s *StatusService) UpdateOrderStatus(ctx context.Context, req *UpdateStatusRequest) (*UpdateStatusResult, *ServiceError) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(404, CodeNotFound, "Order not found")
		}
		s.logger.Error("Failed to load order", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to load order")
	}

	if order.OrderStatus == req.NewStatus {
		return &UpdateStatusResult{
			OrderID:   order.ID,
			OldStatus: order.OrderStatus,
			NewStatus: req.NewStatus,
			NoOp:      true,
		}, nil
	}

	transition, err := s.transitions.Find(ctx, order.OrderStatus, req.NewStatus)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(409, CodeInvalidTransition,
				"Transition from '"+order.OrderStatus+"' to '"+req.NewStatus+"' is not allowed")
		}
		s.logger.Error("Failed to query transition table", zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to validate transition")
	}

	if transition.RequiresReason && req.ReasonCode == "" && req.ReasonMessage == "" {
		return nil, newError(400, CodeReasonRequired,
			"Transition to '"+req.NewStatus+"' requires a reason")
	}

	if req.Actor == models.ActorCustomer && !transition.IsCustomerAllowed {
		return nil, newError(403, CodeForbidden,
			"Customers may not transition orders to '"+req.NewStatus+"'")
	}

	updates := map[string]interface{}{
		"order_status": req.NewStatus,
	}
	if coarse, ok := models.CoarseStatusFor(req.NewStatus); ok {
		updates["status"] = coarse
	}
	if req.NewStatus == models.OrderStatusDelivered && order.ActualDelivery == nil {
		now := time.Now()
		updates["actual_delivery"] = &now
	}

	rows, err := s.orders.UpdateStatusIfCurrent(ctx, order.ID, order.OrderStatus, updates)
	if err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, newError(500, CodeInternal, "Failed to update order status")
	}
	if rows == 0 {
		// A concurrent writer moved the order first. If it landed on the
		// requested status this is idempotent success; otherwise report the
		// conflict to the caller.
		current, err := s.orders.FindByID(ctx, order.ID)
		if err == nil && current.OrderStatus == req.NewStatus {
			return &UpdateStatusResult{
				OrderID:   order.ID,
				OldStatus: order.OrderStatus,
				NewStatus: req.NewStatus,
				NoOp:      true,
			}, nil
		}
		return nil, newError(409, CodeConflict, "Order was modified concurrently")
	}

	entry := &models.OrderStatusHistory{
		OrderID:         order.ID,
		PreviousStatus:  order.OrderStatus,
		NewStatus:       req.NewStatus,
		ChangedBy:       req.Actor,
		ChangedByUserID: req.ActorUserID,
		ReasonCode:      req.ReasonCode,
		ReasonMessage:   req.ReasonMessage,
		Comment:         req.Comment,
		Metadata:        marshalMetadata(req.Metadata),
		RequestIP:       req.RequestIP,
		UserAgent:       req.UserAgent,
	}

	result := &UpdateStatusResult{
		OrderID:     order.ID,
		OldStatus:   order.OrderStatus,
		NewStatus:   req.NewStatus,
		AutoNotify:  transition.AutoNotifyCustomer,
		OrderNumber: order.OrderNumber,
	}
	if order.UserID != nil {
		result.UserID = order.UserID.String()
	}

	// History is an audit trail, not a correctness dependency: a failed insert
	// after the status update is logged and the mutation stands.
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append status history",
			zap.String("order_id", order.ID.String()),
			zap.String("new_status", req.NewStatus),
			zap.Error(err),
		)
	} else {
		result.HistoryID = &entry.ID
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", order.OrderStatus),
		zap.String("to", req.NewStatus),
		zap.String("actor", req.Actor),
	)

	return result, nil
}

// ListTransitions returns the legal outgoing edges for the order's current
// status, optionally restricted to customer-triggerable ones.
func (s *StatusService) ListTransitions(ctx context.Context, orderID uuid.UUID, customerOnly bool) ([]models.OrderStateTransition, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(404, CodeNotFound, "Order not found")
		}
		return nil, newError(500, CodeInternal, "Failed to load order")
	}

	transitions, err := s.transitions.ListFrom(ctx, order.OrderStatus)
	if err != nil {
		s.logger.Error("Failed to list transitions", zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to list transitions")
	}

	if !customerOnly {
		return transitions, nil
	}

	allowed := make([]models.OrderStateTransition, 0, len(transitions))
	for _, t := range transitions {
		if t.IsCustomerAllowed {
			allowed = append(allowed, t)
		}
	}
	return allowed, nil
}

// ListHistory returns the audit trail for an order, newest first.
func (s *StatusService) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, *ServiceError) {
	entries, err := s.history.ListByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list status history", zap.Error(err))
		return nil, newError(500, CodeInternal, "Failed to list status history")
	}
	return entries, nil
}

func marshalMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
