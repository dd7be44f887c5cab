// Package carriers normalizes heterogeneous carrier webhook payloads into
// canonical shipment events. Each carrier has its own payload schema and
// status vocabulary; a parser extracts the event and a mapping stage
// translates it into one of the closed set of order statuses, optionally
// flagging that an anomaly must be raised. Carriers without a dedicated
// parser fall back to keyword matching.
package carriers

import (
	"errors"
	"strings"
	"time"
)

// Event is the canonical shipment event extracted from a carrier payload.
type Event struct {
	Carrier        string
	EventType      string
	TrackingNumber string
	Status         string
	Timestamp      time.Time
	Location       string
	Details        string
}

// AnomalyHint asks the caller to raise an anomaly alongside the status change.
type AnomalyHint struct {
	Type     string
	Severity string
	Title    string
}

// Mapping is the outcome of the translation stage: the canonical order status
// to apply, and an optional anomaly to raise.
type Mapping struct {
	OrderStatus string
	Anomaly     *AnomalyHint
}

// Carrier parses and maps one carrier's webhook payloads.
type Carrier interface {
	Name() string

	// Parse extracts the canonical event from the carrier payload. A missing
	// or unparseable tracking number is an error.
	Parse(payload []byte) (*Event, error)

	// Map translates the event into an order status. ok is false for
	// recognized-but-unmapped events, which the caller must acknowledge
	// without mutation.
	Map(event *Event) (*Mapping, bool)
}

// ErrInvalidPayload is returned when a payload cannot be parsed or lacks a
// tracking number.
var ErrInvalidPayload = errors.New("invalid carrier payload")

var registry = map[string]Carrier{
	"dhl":          &DHL{},
	"colissimo":    &Colissimo{},
	"chronopost":   &Chronopost{},
	"mondialrelay": &MondialRelay{},
}

// ForCarrier returns the parser for the given carrier identifier, falling back
// to the generic keyword normalizer for carriers without a dedicated one.
func ForCarrier(name string) Carrier {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	if c, ok := registry[key]; ok {
		return c
	}
	return &Generic{CarrierName: key}
}

// parseTimestamp tries the timestamp layouts seen across carrier payloads,
// returning the current time when none match.
func parseTimestamp(value string) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"02/01/2006 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}
