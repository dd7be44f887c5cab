package carriers

import (
	"encoding/json"
	"strings"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
)

// Generic fallback schema, accepting both snake_case and camelCase field
// names:
//
//	{
//	  "event_type": "delivery",
//	  "tracking_number": "TRK123",
//	  "status": "Package delivered to recipient",
//	  "timestamp": "2024-03-02T14:05:00Z",
//	  "location": "Paris",
//	  "details": "..."
//	}
type genericPayload struct {
	EventType      string `json:"event_type"`
	EventTypeCamel string `json:"eventType"`
	TrackingNumber string `json:"tracking_number"`
	TrackingCamel  string `json:"trackingNumber"`
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Location       string `json:"location"`
	Details        string `json:"details"`
	Description    string `json:"description"`
}

// Generic normalizes payloads from carriers without a dedicated parser by
// keyword-matching the status text.
type Generic struct {
	CarrierName string
}

func (g *Generic) Name() string {
	if g.CarrierName == "" {
		return "generic"
	}
	return g.CarrierName
}

func (g *Generic) Parse(payload []byte) (*Event, error) {
	var p genericPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, ErrInvalidPayload
	}

	tracking := p.TrackingNumber
	if tracking == "" {
		tracking = p.TrackingCamel
	}
	if tracking == "" {
		return nil, ErrInvalidPayload
	}

	eventType := p.EventType
	if eventType == "" {
		eventType = p.EventTypeCamel
	}
	details := p.Details
	if details == "" {
		details = p.Description
	}

	return &Event{
		Carrier:        g.Name(),
		EventType:      eventType,
		TrackingNumber: tracking,
		Status:         p.Status,
		Timestamp:      parseTimestamp(p.Timestamp),
		Location:       p.Location,
		Details:        details,
	}, nil
}

// Map keyword-matches the lower-cased status text. Failure and return
// keywords are checked before delivery ones so "delivery failed" never maps
// to delivered.
func (g *Generic) Map(event *Event) (*Mapping, bool) {
	status := strings.ToLower(event.Status)

	switch {
	case strings.Contains(status, "fail"), strings.Contains(status, "echec"):
		return &Mapping{
			OrderStatus: models.OrderStatusDeliveryFailed,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeDelivery,
				Severity: models.SeverityHigh,
				Title:    "Carrier reported delivery failure",
			},
		}, true
	case strings.Contains(status, "return"), strings.Contains(status, "retour"):
		return &Mapping{
			OrderStatus: models.OrderStatusReturned,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeCarrier,
				Severity: models.SeverityMedium,
				Title:    "Carrier reported return to sender",
			},
		}, true
	case strings.Contains(status, "delivered"), strings.Contains(status, "livre"):
		return &Mapping{OrderStatus: models.OrderStatusDelivered}, true
	case strings.Contains(status, "transit"):
		return &Mapping{OrderStatus: models.OrderStatusInTransit}, true
	case strings.Contains(status, "picked"), strings.Contains(status, "pickup"):
		return &Mapping{OrderStatus: models.OrderStatusShipped}, true
	default:
		return nil, false
	}
}
