package carriers

import (
	"encoding/json"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
)

// Chronopost tracking events:
//
//	{
//	  "skybillNumber": "XY123456789FR",
//	  "eventCode": "D",
//	  "eventLabel": "Colis livré au destinataire",
//	  "eventDate": "02/03/2024 14:05",
//	  "officeLabel": "Agence de Marseille"
//	}
type chronopostPayload struct {
	SkybillNumber string `json:"skybillNumber"`
	EventCode     string `json:"eventCode"`
	EventLabel    string `json:"eventLabel"`
	EventDate     string `json:"eventDate"`
	OfficeLabel   string `json:"officeLabel"`
}

// Chronopost parses Chronopost tracking events.
type Chronopost struct{}

func (c *Chronopost) Name() string { return "chronopost" }

func (c *Chronopost) Parse(payload []byte) (*Event, error) {
	var p chronopostPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.SkybillNumber == "" {
		return nil, ErrInvalidPayload
	}
	return &Event{
		Carrier:        c.Name(),
		EventType:      p.EventCode,
		TrackingNumber: p.SkybillNumber,
		Status:         p.EventCode,
		Timestamp:      parseTimestamp(p.EventDate),
		Location:       p.OfficeLabel,
		Details:        p.EventLabel,
	}, nil
}

func (c *Chronopost) Map(event *Event) (*Mapping, bool) {
	switch event.Status {
	case "PC": // prise en charge
		return &Mapping{OrderStatus: models.OrderStatusShipped}, true
	case "TA": // en cours d'acheminement
		return &Mapping{OrderStatus: models.OrderStatusInTransit}, true
	case "D": // livré
		return &Mapping{OrderStatus: models.OrderStatusDelivered}, true
	case "NA": // non aboutie
		return &Mapping{
			OrderStatus: models.OrderStatusDeliveryFailed,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeDelivery,
				Severity: models.SeverityHigh,
				Title:    "Chronopost delivery failure",
			},
		}, true
	case "RB": // retour à l'expéditeur
		return &Mapping{
			OrderStatus: models.OrderStatusReturned,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeCarrier,
				Severity: models.SeverityMedium,
				Title:    "Chronopost return to sender",
			},
		}, true
	default:
		return nil, false
	}
}
