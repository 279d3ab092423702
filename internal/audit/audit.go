package audit

import (
	"context"

	"github.com/Dayavats/samvaad/pkg/log"
)

// Audit actions.
const (
	ActionRegister    = "user.register"
	ActionLogin       = "user.login"
	ActionLoginFailed = "user.login_failed"
	ActionConnect     = "chat.connect"
	ActionAuthFailed  = "chat.auth_failed"
	ActionSendMessage = "chat.send_message"
	ActionDeactivate  = "chat.deactivate_conversation"
	ActionRoleChange  = "admin.role_change"
	ActionBan         = "admin.ban"
	ActionFlag        = "moderation.flag"
	ActionDelete      = "moderation.delete"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
	FieldDetail   = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithTarget emits an audit log that names the acted-on entity.
func LogWithTarget(ctx context.Context, action string, userID string, targetID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTargetID, targetID).
		Msg(msg)
}
