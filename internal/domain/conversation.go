package domain

import (
	"time"
)

// Conversation is a two-party thread. The participant pair is fixed at
// creation and at most one active conversation exists per unordered pair.
type Conversation struct {
	ID            string
	ParticipantA  string
	ParticipantB  string
	LastMessageID string // empty until the first message
	LastMessageAt time.Time
	Active        bool
	CreatedAt     time.Time
}

// PairKey builds the canonical key for an unordered participant pair.
// Both orderings of the same two users map to the same key, which is
// what the uniqueness constraint on conversations hangs off.
func PairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// HasParticipant reports whether userID is one of the two members.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// Participants returns both member IDs.
func (c *Conversation) Participants() [2]string {
	return [2]string{c.ParticipantA, c.ParticipantB}
}

// OtherParticipant returns the member that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// ConversationModel is the GORM model for the conversations table.
//
// PairKey carries the at-most-one-active-per-pair invariant: it is
// unique while the conversation is active, and rewritten to a closed
// form on deactivation so the pair can start a fresh conversation.
type ConversationModel struct {
	ID            string    `gorm:"type:varchar(36);primaryKey"`
	PairKey       string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	ParticipantA  string    `gorm:"type:varchar(36);index;not null"`
	ParticipantB  string    `gorm:"type:varchar(36);index;not null"`
	LastMessageID string    `gorm:"type:varchar(36)"`
	LastMessageAt time.Time `gorm:"index"`
	IsActive      bool      `gorm:"index;default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ConversationModel.
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts ConversationModel to domain Conversation.
func (m *ConversationModel) ToDomain() *Conversation {
	return &Conversation{
		ID:            m.ID,
		ParticipantA:  m.ParticipantA,
		ParticipantB:  m.ParticipantB,
		LastMessageID: m.LastMessageID,
		LastMessageAt: m.LastMessageAt,
		Active:        m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

// ConversationToModel converts domain Conversation to ConversationModel.
func ConversationToModel(c *Conversation) *ConversationModel {
	return &ConversationModel{
		ID:            c.ID,
		PairKey:       PairKey(c.ParticipantA, c.ParticipantB),
		ParticipantA:  c.ParticipantA,
		ParticipantB:  c.ParticipantB,
		LastMessageID: c.LastMessageID,
		LastMessageAt: c.LastMessageAt,
		IsActive:      c.Active,
		CreatedAt:     c.CreatedAt,
	}
}

// ConversationResponse is the REST view of a conversation.
type ConversationResponse struct {
	ID            string           `json:"id"`
	Participants  []*UserResponse  `json:"participants"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	LastMessageAt time.Time        `json:"last_message_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateConversationRequest is the payload for POST /conversations.
type CreateConversationRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}
