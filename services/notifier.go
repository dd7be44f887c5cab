package services

import (
	"context"
	"encoding/json"

	"github.com/benmed00/lucid-web-craftsman-sub003/kafka"
	aws_pkg "github.com/benmed00/lucid-web-craftsman-sub003/pkg/aws"
	"go.uber.org/zap"
)

// Notifier dispatches customer-notification events. Delivery is fire-and-forget:
// a failed publish is logged but never propagated, so a notification outage can
// not fail or roll back the order mutation that triggered it.
type Notifier interface {
	Publish(ctx context.Context, key string, event interface{})
}

// EventNotifier publishes events to Kafka and mirrors them to SNS when
// configured. Either sink may be nil.
type EventNotifier struct {
	producer    kafka.ProducerAPI
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewEventNotifier creates an EventNotifier.
func NewEventNotifier(producer kafka.ProducerAPI, snsClient aws_pkg.SNSPublisher, snsTopicArn string, logger *zap.Logger) *EventNotifier {
	return &EventNotifier{
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

func (n *EventNotifier) Publish(ctx context.Context, key string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal notification event", zap.Error(err))
		return
	}

	if n.producer != nil {
		if err := n.producer.Publish(ctx, []byte(key), payload); err != nil {
			n.logger.Error("Failed to publish notification event to Kafka",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	if n.snsClient != nil && n.snsTopicArn != "" {
		if err := n.snsClient.Publish(ctx, n.snsTopicArn, payload); err != nil {
			n.logger.Error("Failed to publish notification event to SNS",
				zap.String("topic", n.snsTopicArn),
				zap.Error(err),
			)
		}
	}
}
