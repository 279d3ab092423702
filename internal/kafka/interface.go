package kafka

import (
	"context"
	"time"
)

// MessageSentEvent is the firehose record emitted after a message
// commits. Downstream consumers (analytics, moderation) read it; the
// delivery path never depends on it.
type MessageSentEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventProducer publishes committed-message events.
type EventProducer interface {
	ProduceMessageSent(ctx context.Context, event *MessageSentEvent) error
	Close() error
}
