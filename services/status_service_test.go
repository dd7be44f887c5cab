package services_test

import (
	"context"
	"testing"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newStatusService(orders *mockOrderRepo, transitions *mockTransitionRepo, history *mockHistoryRepo) *services.StatusService {
	logger, _ := zap.NewDevelopment()
	return services.NewStatusService(orders, transitions, history, logger)
}

func testOrder(status string) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-2026-000123",
		Amount:      4999,
		Currency:    "EUR",
		Status:      models.StatusPending,
		OrderStatus: status,
	}
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusPaymentPending), updateRows: 1}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus:         models.OrderStatusPaymentPending,
		ToStatus:           models.OrderStatusPaid,
		AutoNotifyCustomer: true,
	}}
	history := &mockHistoryRepo{}
	svc := newStatusService(orders, transitions, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   orders.findByIDOrder.ID,
		NewStatus: models.OrderStatusPaid,
		Actor:     models.ActorSystem,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusPaymentPending, result.OldStatus)
	assert.Equal(t, models.OrderStatusPaid, result.NewStatus)
	assert.True(t, result.AutoNotify)
	assert.False(t, result.NoOp)
	assert.NotNil(t, result.HistoryID)
	assert.Equal(t, 1, history.createCalls)
	// The coarse status mirrors the fine-grained one
	assert.Equal(t, models.StatusPaid, orders.updateUpdates["status"])
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusDelivered)}
	transitions := &mockTransitionRepo{}
	history := &mockHistoryRepo{}
	svc := newStatusService(orders, transitions, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   orders.findByIDOrder.ID,
		NewStatus: models.OrderStatusPreparing,
		Actor:     models.ActorAdmin,
	})

	assert.Nil(t, result)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, services.CodeInvalidTransition, svcErr.Code)
	assert.Equal(t, 0, orders.updateCalls)
	assert.Equal(t, 0, history.createCalls)
}

func TestUpdateOrderStatus_ReasonRequired(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusPaid)}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus:     models.OrderStatusPaid,
		ToStatus:       models.OrderStatusCancelled,
		RequiresReason: true,
	}}
	svc := newStatusService(orders, transitions, &mockHistoryRepo{})

	_, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   orders.findByIDOrder.ID,
		NewStatus: models.OrderStatusCancelled,
		Actor:     models.ActorAdmin,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, services.CodeReasonRequired, svcErr.Code)
	assert.Equal(t, 0, orders.updateCalls)
}

func TestUpdateOrderStatus_ReasonProvided(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusPaid), updateRows: 1}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus:     models.OrderStatusPaid,
		ToStatus:       models.OrderStatusCancelled,
		RequiresReason: true,
	}}
	history := &mockHistoryRepo{}
	svc := newStatusService(orders, transitions, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:    orders.findByIDOrder.ID,
		NewStatus:  models.OrderStatusCancelled,
		Actor:      models.ActorAdmin,
		ReasonCode: "customer_request",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusCancelled, result.NewStatus)
	assert.Equal(t, "customer_request", history.entries[0].ReasonCode)
}

func TestUpdateOrderStatus_CustomerNotAllowed(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusPaid)}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus:        models.OrderStatusPaid,
		ToStatus:          models.OrderStatusRefunded,
		RequiresReason:    true,
		IsCustomerAllowed: false,
	}}
	svc := newStatusService(orders, transitions, &mockHistoryRepo{})

	_, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:    orders.findByIDOrder.ID,
		NewStatus:  models.OrderStatusRefunded,
		Actor:      models.ActorCustomer,
		ReasonCode: "changed_mind",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
	assert.Equal(t, services.CodeForbidden, svcErr.Code)
	assert.Equal(t, 0, orders.updateCalls)
}

func TestUpdateOrderStatus_SameStatusIsNoOp(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusShipped)}
	history := &mockHistoryRepo{}
	svc := newStatusService(orders, &mockTransitionRepo{}, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   orders.findByIDOrder.ID,
		NewStatus: models.OrderStatusShipped,
		Actor:     models.ActorSystem,
	})

	assert.Nil(t, svcErr)
	assert.True(t, result.NoOp)
	assert.Equal(t, 0, orders.updateCalls)
	assert.Equal(t, 0, history.createCalls)
}

func TestUpdateOrderStatus_ConcurrentWinnerOnTarget(t *testing.T) {
	order := testOrder(models.OrderStatusShipped)
	moved := testOrder(models.OrderStatusDelivered)
	moved.ID = order.ID
	orders := &mockOrderRepo{findByIDOrder: order, findByIDLater: moved, updateRows: 0}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus: models.OrderStatusShipped,
		ToStatus:   models.OrderStatusDelivered,
	}}
	history := &mockHistoryRepo{}
	svc := newStatusService(orders, transitions, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   order.ID,
		NewStatus: models.OrderStatusDelivered,
		Actor:     models.ActorSystem,
	})

	assert.Nil(t, svcErr)
	assert.True(t, result.NoOp)
	assert.Equal(t, 0, history.createCalls)
}

func TestUpdateOrderStatus_ConcurrentConflict(t *testing.T) {
	order := testOrder(models.OrderStatusShipped)
	moved := testOrder(models.OrderStatusReturned)
	moved.ID = order.ID
	orders := &mockOrderRepo{findByIDOrder: order, findByIDLater: moved, updateRows: 0}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus: models.OrderStatusShipped,
		ToStatus:   models.OrderStatusDelivered,
	}}
	svc := newStatusService(orders, transitions, &mockHistoryRepo{})

	_, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   order.ID,
		NewStatus: models.OrderStatusDelivered,
		Actor:     models.ActorSystem,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, services.CodeConflict, svcErr.Code)
}

func TestUpdateOrderStatus_HistoryFailureIsNonFatal(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusValidated), updateRows: 1}
	transitions := &mockTransitionRepo{transition: &models.OrderStateTransition{
		FromStatus: models.OrderStatusValidated,
		ToStatus:   models.OrderStatusPreparing,
	}}
	history := &mockHistoryRepo{createErr: assert.AnError}
	svc := newStatusService(orders, transitions, history)

	result, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   orders.findByIDOrder.ID,
		NewStatus: models.OrderStatusPreparing,
		Actor:     models.ActorAdmin,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusPreparing, result.NewStatus)
	assert.Nil(t, result.HistoryID)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	orders := &mockOrderRepo{findByIDErr: gormNotFound()}
	svc := newStatusService(orders, &mockTransitionRepo{}, &mockHistoryRepo{})

	_, svcErr := svc.UpdateOrderStatus(context.Background(), &services.UpdateStatusRequest{
		OrderID:   uuid.New(),
		NewStatus: models.OrderStatusPaid,
		Actor:     models.ActorSystem,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestListTransitions_CustomerFilter(t *testing.T) {
	orders := &mockOrderRepo{findByIDOrder: testOrder(models.OrderStatusDelivered)}
	transitions := &mockTransitionRepo{list: []models.OrderStateTransition{
		{FromStatus: models.OrderStatusDelivered, ToStatus: models.OrderStatusReturned, IsCustomerAllowed: true},
		{FromStatus: models.OrderStatusDelivered, ToStatus: models.OrderStatusArchived},
	}}
	svc := newStatusService(orders, transitions, &mockHistoryRepo{})

	all, svcErr := svc.ListTransitions(context.Background(), orders.findByIDOrder.ID, false)
	assert.Nil(t, svcErr)
	assert.Len(t, all, 2)

	orders.findByIDCalls = 0
	customer, svcErr := svc.ListTransitions(context.Background(), orders.findByIDOrder.ID, true)
	assert.Nil(t, svcErr)
	assert.Len(t, customer, 1)
	assert.Equal(t, models.OrderStatusReturned, customer[0].ToStatus)
}
