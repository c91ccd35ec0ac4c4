package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/Black-And-White-Club/club-review/app/shared/attr"
)

// NewAuditRouter builds a watermill router that logs every domain event
// published on sub. Run it with router.Run(ctx).
func NewAuditRouter(sub message.Subscriber, logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create audit router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	for _, topic := range Topics {
		router.AddNoPublisherHandler("audit."+topic, topic, sub, auditHandler(topic, logger))
	}
	return router, nil
}

func auditHandler(topic string, logger *slog.Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := attr.WithCorrelationID(context.Background(), msg.Metadata.Get(correlationIDKey))
		logger.InfoContext(ctx, "Domain event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
			attr.Int64("payload_bytes", int64(len(msg.Payload))),
		)
		return nil
	}
}
