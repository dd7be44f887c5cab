package models

import (
	"time"

	"github.com/google/uuid"
)

// Fine-grained order lifecycle statuses. Every value must be reachable through
// the order_state_transitions table.
const (
	OrderStatusCreated        = "created"
	OrderStatusPaymentPending = "payment_pending"
	OrderStatusPaid           = "paid"
	OrderStatusValidated      = "validated"
	OrderStatusPreparing      = "preparing"
	OrderStatusShipped        = "shipped"
	OrderStatusInTransit      = "in_transit"
	OrderStatusDelivered      = "delivered"
	OrderStatusDeliveryFailed = "delivery_failed"
	OrderStatusReturned       = "returned"
	OrderStatusRefunded       = "refunded"
	OrderStatusCancelled      = "cancelled"
	OrderStatusArchived       = "archived"
)

// Coarse payment-level statuses mirrored on Order.Status.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
	StatusArchived  = "archived"
)

// Actors recorded on status history rows.
const (
	ActorSystem    = "system"
	ActorAdmin     = "admin"
	ActorCustomer  = "customer"
	ActorWebhook   = "webhook"
	ActorScheduler = "scheduler"
)

// Permission levels on transitions. An empty RequiredPermission means any
// non-customer actor may trigger the edge.
const (
	PermissionAdmin = "admin"
)

// coarseByFine maps each fine-grained status to the coarse status it implies.
// Fine statuses absent from the map leave the coarse status untouched.
var coarseByFine = map[string]string{
	OrderStatusCreated:        StatusPending,
	OrderStatusPaymentPending: StatusPending,
	OrderStatusPaid:           StatusPaid,
	OrderStatusValidated:      StatusPaid,
	OrderStatusPreparing:      StatusPaid,
	OrderStatusShipped:        StatusPaid,
	OrderStatusInTransit:      StatusPaid,
	OrderStatusDelivered:      StatusPaid,
	OrderStatusDeliveryFailed: StatusPaid,
	OrderStatusReturned:       StatusPaid,
	OrderStatusRefunded:       StatusRefunded,
	OrderStatusCancelled:      StatusCancelled,
	OrderStatusArchived:       StatusArchived,
}

// CoarseStatusFor returns the coarse status implied by a fine-grained status,
// or ("", false) when the fine status does not constrain the coarse one.
func CoarseStatusFor(orderStatus string) (string, bool) {
	coarse, ok := coarseByFine[orderStatus]
	return coarse, ok
}

// OrderStateTransition is a legal edge in the order status machine. Read-only
// reference data, seeded at startup and queried at validation time.
type OrderStateTransition struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	FromStatus         string `gorm:"type:varchar(32);not null;uniqueIndex:idx_transition_edge" json:"from_status"`
	ToStatus           string `gorm:"type:varchar(32);not null;uniqueIndex:idx_transition_edge" json:"to_status"`
	RequiredPermission string `gorm:"type:varchar(32)" json:"required_permission"`
	IsCustomerAllowed  bool   `json:"is_customer_allowed"`
	RequiresReason     bool   `json:"requires_reason"`
	AutoNotifyCustomer bool   `json:"auto_notify_customer"`
	Description        string `gorm:"type:varchar(256)" json:"description"`
}

// OrderStatusHistory is the append-only audit trail of status changes. One row
// per transition; never updated or deleted.
type OrderStatusHistory struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	PreviousStatus  string     `gorm:"type:varchar(32)" json:"previous_status"`
	NewStatus       string     `gorm:"type:varchar(32);not null" json:"new_status"`
	ChangedBy       string     `gorm:"type:varchar(20);not null" json:"changed_by"`
	ChangedByUserID *uuid.UUID `gorm:"type:uuid" json:"changed_by_user_id,omitempty"`
	ReasonCode      string     `gorm:"type:varchar(64)" json:"reason_code,omitempty"`
	ReasonMessage   string     `gorm:"type:varchar(512)" json:"reason_message,omitempty"`
	Comment         string     `gorm:"type:varchar(1024)" json:"comment,omitempty"`
	Metadata        string     `gorm:"type:jsonb" json:"-"`
	RequestIP       string     `gorm:"type:varchar(64)" json:"request_ip,omitempty"`
	UserAgent       string     `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
