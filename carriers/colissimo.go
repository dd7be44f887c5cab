package carriers

import (
	"encoding/json"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
)

// Colissimo event notifications:
//
//	{
//	  "numero_suivi": "6A12345678901",
//	  "code_evenement": "LIVRE",
//	  "libelle": "Votre colis est livré",
//	  "date_evenement": "2024-03-02T14:05:00",
//	  "site": "Lyon"
//	}
//
// Some Colissimo integrations send the shorter event/tracking_number field
// names; both spellings are accepted.
type colissimoPayload struct {
	NumeroSuivi    string `json:"numero_suivi"`
	TrackingNumber string `json:"tracking_number"`
	CodeEvenement  string `json:"code_evenement"`
	Event          string `json:"event"`
	Libelle        string `json:"libelle"`
	DateEvenement  string `json:"date_evenement"`
	Site           string `json:"site"`
}

// Colissimo parses Colissimo (La Poste) event notifications.
type Colissimo struct{}

func (c *Colissimo) Name() string { return "colissimo" }

func (c *Colissimo) Parse(payload []byte) (*Event, error) {
	var p colissimoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, ErrInvalidPayload
	}

	tracking := p.NumeroSuivi
	if tracking == "" {
		tracking = p.TrackingNumber
	}
	if tracking == "" {
		return nil, ErrInvalidPayload
	}

	code := p.CodeEvenement
	if code == "" {
		code = p.Event
	}

	return &Event{
		Carrier:        c.Name(),
		EventType:      code,
		TrackingNumber: tracking,
		Status:         code,
		Timestamp:      parseTimestamp(p.DateEvenement),
		Location:       p.Site,
		Details:        p.Libelle,
	}, nil
}

func (c *Colissimo) Map(event *Event) (*Mapping, bool) {
	switch event.Status {
	case "PC1": // pris en charge
		return &Mapping{OrderStatus: models.OrderStatusShipped}, true
	case "ET1": // en transit
		return &Mapping{OrderStatus: models.OrderStatusInTransit}, true
	case "LIVRE":
		return &Mapping{OrderStatus: models.OrderStatusDelivered}, true
	case "ECHEC_LIVRAISON", "ANOMALIE":
		return &Mapping{
			OrderStatus: models.OrderStatusDeliveryFailed,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeDelivery,
				Severity: models.SeverityHigh,
				Title:    "Colissimo delivery failure",
			},
		}, true
	case "RETOUR":
		return &Mapping{
			OrderStatus: models.OrderStatusReturned,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeCarrier,
				Severity: models.SeverityMedium,
				Title:    "Colissimo return to sender",
			},
		}, true
	default:
		return nil, false
	}
}
