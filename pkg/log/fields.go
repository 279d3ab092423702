package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID = "user_id"
	FieldName   = "name"
	FieldRole   = "role"

	// Chat
	FieldConversationID = "conversation_id"
	FieldMessageID      = "message_id"
	FieldChannelID      = "channel_id"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
