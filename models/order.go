package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address represents a shipping or billing address attached to an order.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO 3166-1 alpha-2, e.g. "FR"
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Order is the GORM model for a purchase attempt. The server-stored Amount is
// authoritative; client-submitted prices are never trusted. OrderStatus is
// written only through the status service or the payment verification path.
type Order struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil for guest checkout

	Amount   int64  `gorm:"not null" json:"amount"` // minor units (cents)
	Currency string `gorm:"type:varchar(8);not null;default:'EUR'" json:"currency"`

	// Status is the coarse payment-level state, OrderStatus the fine-grained
	// lifecycle state. CoarseStatusFor defines the mapping between them.
	Status      string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrderStatus string `gorm:"type:varchar(32);not null;default:'created';index" json:"order_status"`

	PaymentMethod    string `gorm:"type:varchar(32)" json:"payment_method,omitempty"`
	PaymentReference string `gorm:"type:varchar(128);index" json:"payment_reference,omitempty"`

	FraudScore int    `json:"fraud_score"`
	FraudFlags string `gorm:"type:jsonb" json:"-"`

	ShippingAddress string `gorm:"type:jsonb" json:"-"`
	BillingAddress  string `gorm:"type:jsonb" json:"-"`

	Carrier        string `gorm:"type:varchar(64)" json:"carrier,omitempty"`
	TrackingNumber string `gorm:"type:varchar(128);index" json:"tracking_number,omitempty"`
	TrackingURL    string `gorm:"type:varchar(1024)" json:"tracking_url,omitempty"`

	RetryCount  int        `json:"retry_count"`
	LastRetryAt *time.Time `json:"last_retry_at,omitempty"`

	HasAnomaly        bool   `json:"has_anomaly"`
	AnomalyCount      int    `json:"anomaly_count"`
	RequiresAttention bool   `json:"requires_attention"`
	AttentionReason   string `gorm:"type:varchar(256)" json:"attention_reason,omitempty"`

	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`

	Metadata string `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// OrderItem is an immutable line item. ProductSnapshot freezes the product
// name/price/image at order time so historical orders are unaffected by later
// product edits. Created once with the order; never mutated.
type OrderItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	UnitPrice       int64     `gorm:"not null" json:"unit_price"` // minor units, captured at order time
	LineTotal       int64     `gorm:"not null" json:"line_total"`
	ProductSnapshot string    `gorm:"type:jsonb" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}
