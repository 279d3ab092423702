package service

import "errors"

var (
	ErrForbidden          = errors.New("caller is not a participant")
	ErrBanned             = errors.New("account is banned")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfConversation   = errors.New("cannot open a conversation with yourself")
	ErrMediaDisabled      = errors.New("media uploads are disabled")
)
