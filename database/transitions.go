package database

import (
	"fmt"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultTransitions is the legal-transition graph seeded into
// order_state_transitions. The table, not this slice, is what the status
// service queries at validation time; operators may extend it in place.
var defaultTransitions = []models.OrderStateTransition{
	{FromStatus: models.OrderStatusCreated, ToStatus: models.OrderStatusPaymentPending,
		Description: "Checkout initiated, awaiting payment"},
	{FromStatus: models.OrderStatusCreated, ToStatus: models.OrderStatusCancelled,
		IsCustomerAllowed: true, Description: "Abandoned before payment"},

	{FromStatus: models.OrderStatusPaymentPending, ToStatus: models.OrderStatusPaid,
		AutoNotifyCustomer: true, Description: "Payment captured"},
	{FromStatus: models.OrderStatusPaymentPending, ToStatus: models.OrderStatusCancelled,
		IsCustomerAllowed: true, Description: "Cancelled before payment"},

	{FromStatus: models.OrderStatusPaid, ToStatus: models.OrderStatusValidated,
		RequiredPermission: models.PermissionAdmin, Description: "Order reviewed and accepted"},
	{FromStatus: models.OrderStatusPaid, ToStatus: models.OrderStatusCancelled,
		RequiredPermission: models.PermissionAdmin, RequiresReason: true, AutoNotifyCustomer: true,
		Description: "Cancelled after payment"},
	{FromStatus: models.OrderStatusPaid, ToStatus: models.OrderStatusRefunded,
		RequiredPermission: models.PermissionAdmin, RequiresReason: true, AutoNotifyCustomer: true,
		Description: "Refunded before fulfilment"},

	{FromStatus: models.OrderStatusValidated, ToStatus: models.OrderStatusPreparing,
		RequiredPermission: models.PermissionAdmin, Description: "Picking started"},
	{FromStatus: models.OrderStatusValidated, ToStatus: models.OrderStatusCancelled,
		RequiredPermission: models.PermissionAdmin, RequiresReason: true, AutoNotifyCustomer: true,
		Description: "Cancelled during review"},

	{FromStatus: models.OrderStatusPreparing, ToStatus: models.OrderStatusShipped,
		AutoNotifyCustomer: true, Description: "Handed to carrier"},

	{FromStatus: models.OrderStatusShipped, ToStatus: models.OrderStatusInTransit,
		Description: "Carrier pickup scan"},
	{FromStatus: models.OrderStatusShipped, ToStatus: models.OrderStatusDelivered,
		AutoNotifyCustomer: true, Description: "Delivered"},
	{FromStatus: models.OrderStatusShipped, ToStatus: models.OrderStatusDeliveryFailed,
		AutoNotifyCustomer: true, Description: "Delivery attempt failed"},

	{FromStatus: models.OrderStatusInTransit, ToStatus: models.OrderStatusDelivered,
		AutoNotifyCustomer: true, Description: "Delivered"},
	{FromStatus: models.OrderStatusInTransit, ToStatus: models.OrderStatusDeliveryFailed,
		AutoNotifyCustomer: true, Description: "Delivery attempt failed"},
	{FromStatus: models.OrderStatusInTransit, ToStatus: models.OrderStatusReturned,
		Description: "Returned to sender in transit"},

	{FromStatus: models.OrderStatusDeliveryFailed, ToStatus: models.OrderStatusInTransit,
		Description: "Redelivery attempt"},
	{FromStatus: models.OrderStatusDeliveryFailed, ToStatus: models.OrderStatusReturned,
		Description: "Returned after failed delivery"},
	{FromStatus: models.OrderStatusDeliveryFailed, ToStatus: models.OrderStatusRefunded,
		RequiredPermission: models.PermissionAdmin, RequiresReason: true, AutoNotifyCustomer: true,
		Description: "Refunded after failed delivery"},

	{FromStatus: models.OrderStatusDelivered, ToStatus: models.OrderStatusReturned,
		IsCustomerAllowed: true, RequiresReason: true, Description: "Customer return"},
	{FromStatus: models.OrderStatusDelivered, ToStatus: models.OrderStatusArchived,
		Description: "Archived after delivery"},

	{FromStatus: models.OrderStatusReturned, ToStatus: models.OrderStatusRefunded,
		RequiredPermission: models.PermissionAdmin, RequiresReason: true, AutoNotifyCustomer: true,
		Description: "Refund issued for return"},

	{FromStatus: models.OrderStatusRefunded, ToStatus: models.OrderStatusArchived,
		Description: "Archived after refund"},
	{FromStatus: models.OrderStatusCancelled, ToStatus: models.OrderStatusArchived,
		Description: "Archived after cancellation"},
}

// SeedTransitions inserts the default transition graph, leaving rows that
// already exist untouched so operator edits survive restarts.
func SeedTransitions(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_status"}, {Name: "to_status"}},
		DoNothing: true,
	}).Create(&defaultTransitions).Error; err != nil {
		return fmt.Errorf("seed transitions: %w", err)
	}
	return nil
}
