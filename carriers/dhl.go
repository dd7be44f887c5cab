package carriers

import (
	"encoding/json"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
)

// DHL push notifications:
//
//	{
//	  "trackingNumber": "00340434161094000001",
//	  "event": {
//	    "statusCode": "transit",
//	    "description": "Shipment processed at parcel center",
//	    "timestamp": "2024-03-01T09:12:00Z",
//	    "location": "Paris, FR"
//	  }
//	}
type dhlPayload struct {
	TrackingNumber string `json:"trackingNumber"`
	Event          struct {
		StatusCode  string `json:"statusCode"`
		Description string `json:"description"`
		Timestamp   string `json:"timestamp"`
		Location    string `json:"location"`
	} `json:"event"`
}

// DHL parses DHL shipment event notifications.
type DHL struct{}

func (d *DHL) Name() string { return "dhl" }

func (d *DHL) Parse(payload []byte) (*Event, error) {
	var p dhlPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.TrackingNumber == "" {
		return nil, ErrInvalidPayload
	}
	return &Event{
		Carrier:        d.Name(),
		EventType:      p.Event.StatusCode,
		TrackingNumber: p.TrackingNumber,
		Status:         p.Event.StatusCode,
		Timestamp:      parseTimestamp(p.Event.Timestamp),
		Location:       p.Event.Location,
		Details:        p.Event.Description,
	}, nil
}

func (d *DHL) Map(event *Event) (*Mapping, bool) {
	switch event.Status {
	case "pre-transit":
		return &Mapping{OrderStatus: models.OrderStatusShipped}, true
	case "transit":
		return &Mapping{OrderStatus: models.OrderStatusInTransit}, true
	case "delivered":
		return &Mapping{OrderStatus: models.OrderStatusDelivered}, true
	case "failure":
		return &Mapping{
			OrderStatus: models.OrderStatusDeliveryFailed,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeDelivery,
				Severity: models.SeverityHigh,
				Title:    "DHL delivery failure",
			},
		}, true
	case "returned":
		return &Mapping{
			OrderStatus: models.OrderStatusReturned,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeCarrier,
				Severity: models.SeverityMedium,
				Title:    "DHL shipment returned to sender",
			},
		}, true
	default:
		return nil, false
	}
}
