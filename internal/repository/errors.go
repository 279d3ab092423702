package repository

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyText            = errors.New("message text is empty")
	ErrMessageNotFound      = errors.New("message not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrStoryNotFound        = errors.New("story not found")
)
