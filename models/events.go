package models

import "time"

// OrderStatusChangedEvent is published when an order transitions status and the
// matched transition has auto_notify_customer set. Consumed by the notification
// service; delivery is best-effort.
type OrderStatusChangedEvent struct {
	EventType      string    `json:"event_type"` // "order_status_changed"
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	UserID         string    `json:"user_id,omitempty"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	ReasonCode     string    `json:"reason_code,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentCapturedEvent is published after a payment is verified and captured.
type PaymentCapturedEvent struct {
	EventType     string    `json:"event_type"` // "payment_captured"
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id,omitempty"`
	Provider      string    `json:"provider"` // "paypal" | "stripe"
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// DeliveryNotificationEvent is published for delivered / delivery_failed
// outcomes of a carrier webhook.
type DeliveryNotificationEvent struct {
	EventType      string    `json:"event_type"` // "order_delivered" | "order_delivery_failed"
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	UserID         string    `json:"user_id,omitempty"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	Location       string    `json:"location,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
