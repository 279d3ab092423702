package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/pkg/log"
)

// GormConversationRepository implements ConversationRepository using GORM.
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GORM-based conversation repository.
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// FindActivePair looks up the active conversation for an unordered pair.
func (r *GormConversationRepository) FindActivePair(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	var model domain.ConversationModel
	result := r.db.WithContext(ctx).
		First(&model, "pair_key = ? AND is_active = ?", domain.PairKey(userA, userB), true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// CreateOrGet returns the pair's active conversation, creating it when
// absent. The unique index on pair_key is the arbiter under concurrent
// creation: the loser's insert fails and it re-reads the winner's row,
// so every caller observes the same conversation.
func (r *GormConversationRepository) CreateOrGet(ctx context.Context, userA, userB string) (*domain.Conversation, bool, error) {
	if conv, err := r.FindActivePair(ctx, userA, userB); err == nil {
		return conv, false, nil
	} else if !errors.Is(err, ErrConversationNotFound) {
		return nil, false, err
	}

	conv := &domain.Conversation{
		ID:            uuid.New().String(),
		ParticipantA:  userA,
		ParticipantB:  userB,
		LastMessageAt: time.Now().UTC(),
		Active:        true,
	}

	model := domain.ConversationToModel(conv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the creation race; hand back the winner's row.
			existing, ferr := r.FindActivePair(ctx, userA, userB)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	conv.CreatedAt = model.CreatedAt
	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldConversationID, conv.ID).Msg("conversation created")
	return conv, true, nil
}

// GetByID retrieves a conversation by ID, active or not.
func (r *GormConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var model domain.ConversationModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListForUser returns the user's active conversations, most recently
// active first.
func (r *GormConversationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var models []domain.ConversationModel
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND (participant_a = ? OR participant_b = ?)", true, userID, userID).
		Order("last_message_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	conversations := make([]domain.Conversation, len(models))
	for i, model := range models {
		conversations[i] = *model.ToDomain()
	}
	return conversations, nil
}

// RecordNewMessage moves the last-message pointer and activity time.
func (r *GormConversationRepository) RecordNewMessage(ctx context.Context, conversationID, messageID string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.ConversationModel{}).
		Where("id = ? AND is_active = ?", conversationID, true).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"last_message_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Deactivate soft-deletes a conversation. The pair key is rewritten to
// "closed:<id>" so the unique index frees the pair for a future
// conversation while the row itself is kept. The conversation ID keeps
// the closed key unique, and the form stays well inside the column
// width on every driver.
func (r *GormConversationRepository) Deactivate(ctx context.Context, conversationID string) error {
	result := r.db.WithContext(ctx).Model(&domain.ConversationModel{}).
		Where("id = ? AND is_active = ?", conversationID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"pair_key":  "closed:" + conversationID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-index violation on
// any of the supported drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "Duplicate entry")
}
