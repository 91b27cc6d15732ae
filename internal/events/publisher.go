package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/pkg/logger"
)

const (
	// StreamName is the name of the chat events stream.
	StreamName = "CHAT_EVENTS"

	// SubjectPrefix is the prefix for all chat event subjects.
	SubjectPrefix = "chat"
)

// Event types.
const (
	TypeUserRegistered = "user.registered"
	TypeTurnCompleted  = "turn.completed"
)

// Event is a conversation lifecycle event.
type Event struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id,omitempty"`
	ThreadID  uint      `json:"thread_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher publishes events to JetStream. A nil Publisher is valid and
// drops everything, so callers never branch on whether events are enabled.
type Publisher struct {
	client *Client
	logger *logger.Logger
}

// NewPublisher creates a publisher and ensures the events stream exists.
func NewPublisher(ctx context.Context, client *Client, log *logger.Logger) (*Publisher, error) {
	js := client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err != nil {
		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        StreamName,
			Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      30 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Description: "Conversation lifecycle events",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	return &Publisher{client: client, logger: log}, nil
}

// Publish emits an event. Failures are logged, not returned.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}

	event.CreatedAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("%s.%s", SubjectPrefix, event.Type)
	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
