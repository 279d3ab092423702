package repository

import (
	"context"
	"time"

	"github.com/Dayavats/samvaad/internal/domain"
)

// UserRepository is the durable store of user identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListExcept(ctx context.Context, userID string) ([]domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	SetBanned(ctx context.Context, id string, banned bool) (*domain.User, error)
}

// ConversationRepository is the durable store of two-party conversations.
type ConversationRepository interface {
	// FindActivePair returns the active conversation for an unordered
	// pair, or ErrConversationNotFound.
	FindActivePair(ctx context.Context, userA, userB string) (*domain.Conversation, error)

	// CreateOrGet returns the active conversation for the pair,
	// creating it when absent. Concurrent calls for the same pair all
	// observe the same conversation; the second return reports whether
	// this call created it.
	CreateOrGet(ctx context.Context, userA, userB string) (*domain.Conversation, bool, error)

	GetByID(ctx context.Context, id string) (*domain.Conversation, error)

	// ListForUser returns the user's active conversations, most
	// recently active first.
	ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error)

	// RecordNewMessage moves the last-message pointer. Returns
	// ErrConversationNotFound when the id is unknown or inactive.
	RecordNewMessage(ctx context.Context, conversationID, messageID string, at time.Time) error

	// Deactivate soft-deletes a conversation.
	Deactivate(ctx context.Context, conversationID string) error
}

// MessageRepository is the append-only store of messages.
type MessageRepository interface {
	// Append persists a message with a server-side timestamp and
	// database-assigned sequence. Returns ErrEmptyText when text trims
	// to nothing and ErrConversationNotFound for an unknown or
	// inactive conversation.
	Append(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error)

	// GetByID returns one message or ErrMessageNotFound.
	GetByID(ctx context.Context, id string) (*domain.Message, error)

	// ListForConversation returns all messages in append order.
	ListForConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
}

// PostRepository is the durable store of feed posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	SetFlagged(ctx context.Context, id string, flagged bool) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

// StoryRepository is the durable store of stories.
type StoryRepository interface {
	Create(ctx context.Context, story *domain.Story) error
	List(ctx context.Context) ([]domain.Story, error)
	SetFlagged(ctx context.Context, id string, flagged bool) (*domain.Story, error)
	Delete(ctx context.Context, id string) error
}
