package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Dayavats/samvaad/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
//
// The insert is the serialization point for a conversation's log: the
// database assigns each row an auto-increment sequence, and reads order
// by it, so concurrent sends from both participants end up in
// append-completion order with stable ties.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Append persists a new message. Text is rejected when it trims to
// nothing; the conversation must exist and be active.
func (r *GormMessageRepository) Append(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ConversationModel{}).
		Where("id = ? AND is_active = ?", conversationID, true).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrConversationNotFound
	}

	model := &domain.MessageModel{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}

	return model.ToDomain(), nil
}

// GetByID returns a single message, ErrMessageNotFound when absent.
func (r *GormMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var model domain.MessageModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListForConversation returns the conversation's messages in append
// order, oldest first.
func (r *GormMessageRepository) ListForConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&domain.ConversationModel{}).
		Where("id = ?", conversationID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrConversationNotFound
	}

	var models []domain.MessageModel
	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("seq ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	messages := make([]domain.Message, len(models))
	for i, model := range models {
		messages[i] = *model.ToDomain()
	}
	return messages, nil
}
