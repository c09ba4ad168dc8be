package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillPublisher marshals events to JSON and publishes them on one topic.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewWatermillPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// NewKafkaPublisher publishes to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*WatermillPublisher, error) {
	pub, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return NewWatermillPublisher(pub, topic, logger), nil
}

// NewGoChannelPublisher publishes in-process. The returned GoChannel can be
// used to subscribe to the same topic.
func NewGoChannelPublisher(topic string, logger *slog.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
	return NewWatermillPublisher(pubSub, topic, logger), pubSub
}

func (p *WatermillPublisher) Publish(ctx context.Context, events ...*Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*message.Message, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
		}

		msg := message.NewMessage(e.ID, payload)
		msg.Metadata.Set("event_type", string(e.Type))
		msg.SetContext(ctx)
		msgs = append(msgs, msg)
	}

	if err := p.publisher.Publish(p.topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events to %s: %w", len(msgs), p.topic, err)
	}

	p.logger.Debug("Events published", "topic", p.topic, "count", len(msgs))
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
