package cache

import (
	"context"
	"errors"

	"github.com/Dayavats/samvaad/internal/domain"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// HistoryCache caches a conversation's message page for the REST read
// path. Purely an optimization: every entry is invalidated on append
// and expires on a short TTL.
type HistoryCache interface {
	Get(ctx context.Context, conversationID string) ([]domain.MessageResponse, error)
	Set(ctx context.Context, conversationID string, messages []domain.MessageResponse) error
	Invalidate(ctx context.Context, conversationID string) error
	Close() error
}
