package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelEventPublisher is an in-process publisher used when no
// broker is configured (local development, tests)
type GoChannelEventPublisher struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewGoChannelEventPublisher(logger *slog.Logger) *GoChannelEventPublisher {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)
	return &GoChannelEventPublisher{
		pubsub: pubsub,
		logger: logger,
	}
}

// Subscribe exposes the underlying pubsub for in-process consumers
func (p *GoChannelEventPublisher) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, topic)
}

func (p *GoChannelEventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	return p.pubsub.Publish(TopicForEvent(event.Type), msg)
}

func (p *GoChannelEventPublisher) Close() error {
	return p.pubsub.Close()
}
