package models

import (
	"time"

	"github.com/google/uuid"
)

// Anomaly types.
const (
	AnomalyTypePayment   = "payment"
	AnomalyTypeStock     = "stock"
	AnomalyTypeDelivery  = "delivery"
	AnomalyTypeFraud     = "fraud"
	AnomalyTypeTechnical = "technical"
	AnomalyTypeCustomer  = "customer"
	AnomalyTypeCarrier   = "carrier"
)

// Anomaly severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SeverityRequiresAttention reports whether an anomaly of the given severity
// must flip the order's requires_attention flag.
func SeverityRequiresAttention(severity string) bool {
	return severity == SeverityHigh || severity == SeverityCritical
}

// OrderAnomaly records an exceptional condition tied to an order. Created by
// detection logic; mutated only by resolution or retry bookkeeping; never
// deleted.
type OrderAnomaly struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`

	Type        string `gorm:"type:varchar(20);not null;index" json:"type"`
	Severity    string `gorm:"type:varchar(10);not null" json:"severity"`
	Title       string `gorm:"type:varchar(256);not null" json:"title"`
	Description string `gorm:"type:varchar(1024)" json:"description,omitempty"`
	DetectedBy  string `gorm:"type:varchar(20);not null" json:"detected_by"`

	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy       *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolutionNotes  string     `gorm:"type:varchar(1024)" json:"resolution_notes,omitempty"`
	ResolutionAction string     `gorm:"type:varchar(64)" json:"resolution_action,omitempty"`

	// Advisory state for an external retry scheduler; this service only keeps
	// the bookkeeping current.
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `gorm:"default:3" json:"max_retries"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`

	Escalated   bool       `json:"escalated"`
	EscalatedAt *time.Time `json:"escalated_at,omitempty"`

	Metadata  string    `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Resolved reports whether the anomaly has already been resolved.
func (a *OrderAnomaly) Resolved() bool {
	return a.ResolvedAt != nil
}
