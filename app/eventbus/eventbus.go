// Package eventbus publishes domain events after a transaction commits.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

// Domain event topics.
const (
	ClubCreated   = "club.created"
	ClubUpdated   = "club.updated"
	ClubDeleted   = "club.deleted"
	UserCreated   = "user.created"
	UserUpdated   = "user.updated"
	UserDeleted   = "user.deleted"
	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

// Topics lists every domain event topic.
var Topics = []string{
	ClubCreated, ClubUpdated, ClubDeleted,
	UserCreated, UserUpdated, UserDeleted,
	ReviewCreated, ReviewUpdated, ReviewDeleted,
}

const correlationIDKey = "correlation_id"

// Publisher emits a JSON-encoded payload on topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// NewMessage encodes payload into a watermill message with a fresh id and
// the request correlation id in its metadata.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), body)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(correlationIDKey, id)
	}
	return msg, nil
}

// ChannelBus is an in-process bus backed by watermill's GoChannel.
type ChannelBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewChannelBus creates an in-process bus. Messages published before any
// subscriber exists are dropped.
func NewChannelBus(logger *slog.Logger) *ChannelBus {
	return &ChannelBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

func (b *ChannelBus) Publish(ctx context.Context, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	b.logger.DebugContext(ctx, "Publishing event",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
	return b.pubsub.Publish(topic, msg)
}

// Subscribe returns the raw message stream for topic.
func (b *ChannelBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Subscriber exposes the bus to a watermill router.
func (b *ChannelBus) Subscriber() message.Subscriber { return b.pubsub }

func (b *ChannelBus) Close() error { return b.pubsub.Close() }

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, string, any) error { return nil }
func (Discard) Close() error                               { return nil }

// PublishAfterCommit publishes an event and logs, rather than returns, any
// failure: the write it describes has already committed.
func PublishAfterCommit(ctx context.Context, pub Publisher, logger *slog.Logger, topic string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, payload); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
