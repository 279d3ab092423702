package domain

// WebSocket message types from client.
const (
	MsgTypeAuth        = "auth"
	MsgTypeSendMessage = "send_message"
	MsgTypePing        = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeAuthResult  = "auth_result"
	MsgTypeMessageSent = "message_sent"
	MsgTypeNewMessage  = "new_message"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"
)

// Error codes carried by ws error payloads.
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL"
)

// BaseMessage is decoded first to dispatch on Type.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server

// AuthMessage carries the connect credential. It must be the first
// frame on a new channel; nothing else is accepted before it.
type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SendMessageWS is a send request on an established channel.
type SendMessageWS struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// Server -> Client

// AuthResultMessage reports the outcome of the identity handshake.
type AuthResultMessage struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	UserID  string `json:"user_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// MessageSentAck confirms persistence of a send to its caller. Fan-out
// outcome is deliberately not part of this contract.
type MessageSentAck struct {
	Type    string           `json:"type"`
	Message *MessageResponse `json:"message"`
}

// NewMessageEvent is the fan-out payload pushed to every live session
// of both participants.
type NewMessageEvent struct {
	Type           string           `json:"type"`
	Message        *MessageResponse `json:"message"`
	ConversationID string           `json:"conversation_id"`
}

// ErrorMessage reports a failed request on the ws surface.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorMessage builds an error payload.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
