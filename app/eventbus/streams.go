package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

const (
	// StreamName is the JetStream stream holding every domain event.
	StreamName = "CLUBREVIEW"
	// SubjectPrefix is prepended to topics to form NATS subjects.
	SubjectPrefix = "clubreview."
)

// Subject maps a topic onto its NATS subject.
func Subject(topic string) string {
	return SubjectPrefix + topic
}

// NATSBus publishes events to a JetStream stream.
type NATSBus struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *slog.Logger
}

// NewNATSBus connects to url and makes sure the event stream exists.
func NewNATSBus(ctx context.Context, url string, logger *slog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url, nats.Name("club-review"), nats.RetryOnFailedConnect(true))
	if err != nil {
		logger.Error("Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	if err := InitializeStream(ctx, js, logger); err != nil {
		conn.Close()
		return nil, err
	}

	return &NATSBus{conn: conn, js: js, logger: logger}, nil
}

// InitializeStream creates or updates the event stream.
func InitializeStream(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	cfg := jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPrefix + ">"},
	}
	if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
		logger.Error("Failed to create JetStream stream", attr.String("stream", StreamName), attr.Error(err))
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	logger.Info("JetStream stream ready", attr.String("stream", StreamName))
	return nil
}

func (b *NATSBus) Publish(ctx context.Context, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}

	out := nats.NewMsg(Subject(topic))
	out.Data = msg.Payload
	for k, v := range msg.Metadata {
		out.Header.Set(k, v)
	}

	ack, err := b.js.PublishMsg(ctx, out, jetstream.WithMsgID(msg.UUID))
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	b.logger.DebugContext(ctx, "Event published",
		attr.String("subject", out.Subject),
		attr.Int64("sequence", int64(ack.Sequence)),
	)
	return nil
}

func (b *NATSBus) Close() error {
	if b.conn == nil {
		return nil
	}
	if err := b.conn.Drain(); err != nil && !strings.Contains(err.Error(), "closed") {
		return err
	}
	return nil
}
