package carriers

import (
	"encoding/json"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
)

// Mondial Relay status notifications:
//
//	{
//	  "NumeroExpedition": "12345678",
//	  "CodeStatut": "82",
//	  "Libelle": "Colis livré au Point Relais",
//	  "DateStatut": "2024-03-02 14:05:00",
//	  "PointRelais": "Relais des Halles, Paris"
//	}
type mondialRelayPayload struct {
	NumeroExpedition string `json:"NumeroExpedition"`
	CodeStatut       string `json:"CodeStatut"`
	Libelle          string `json:"Libelle"`
	DateStatut       string `json:"DateStatut"`
	PointRelais      string `json:"PointRelais"`
}

// MondialRelay parses Mondial Relay status notifications.
type MondialRelay struct{}

func (m *MondialRelay) Name() string { return "mondialrelay" }

func (m *MondialRelay) Parse(payload []byte) (*Event, error) {
	var p mondialRelayPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.NumeroExpedition == "" {
		return nil, ErrInvalidPayload
	}
	return &Event{
		Carrier:        m.Name(),
		EventType:      p.CodeStatut,
		TrackingNumber: p.NumeroExpedition,
		Status:         p.CodeStatut,
		Timestamp:      parseTimestamp(p.DateStatut),
		Location:       p.PointRelais,
		Details:        p.Libelle,
	}, nil
}

func (m *MondialRelay) Map(event *Event) (*Mapping, bool) {
	switch event.Status {
	case "80": // pris en charge
		return &Mapping{OrderStatus: models.OrderStatusShipped}, true
	case "81": // en cours d'acheminement
		return &Mapping{OrderStatus: models.OrderStatusInTransit}, true
	case "82": // livré au Point Relais
		return &Mapping{OrderStatus: models.OrderStatusDelivered}, true
	case "83": // incident de livraison
		return &Mapping{
			OrderStatus: models.OrderStatusDeliveryFailed,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeDelivery,
				Severity: models.SeverityHigh,
				Title:    "Mondial Relay delivery incident",
			},
		}, true
	case "84": // retour à l'expéditeur
		return &Mapping{
			OrderStatus: models.OrderStatusReturned,
			Anomaly: &AnomalyHint{
				Type:     models.AnomalyTypeCarrier,
				Severity: models.SeverityMedium,
				Title:    "Mondial Relay return to sender",
			},
		}, true
	default:
		return nil, false
	}
}
