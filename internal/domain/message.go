package domain

import (
	"time"
)

// Message is one immutable entry in a conversation's append-only log.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	Seq            int64
	CreatedAt      time.Time
}

// MessageModel is the GORM model for the messages table.
//
// Seq is the append serialization point: an auto-increment primary key
// assigned by the database at insert, so listing by Seq yields the
// append-completion order with stable ties regardless of timestamp
// resolution.
type MessageModel struct {
	Seq            int64     `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	ConversationID string    `gorm:"type:varchar(36);index;not null"`
	SenderID       string    `gorm:"type:varchar(36);index;not null"`
	Text           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for MessageModel.
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts MessageModel to domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		Seq:            m.Seq,
		CreatedAt:      m.CreatedAt,
	}
}

// MessageResponse is the wire view of a message, shared by the REST
// read path and the WebSocket fan-out payload.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts a message to its wire view.
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}
