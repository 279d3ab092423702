package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/internal/service"
	"github.com/Dayavats/samvaad/pkg/response"
)

// ChatHandler serves the REST side of conversations and history.
type ChatHandler struct {
	chat service.ChatService
}

// NewChatHandler creates the conversation REST handler.
func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ListConversations handles GET /conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := auth.GetUserID(c)

	conversations, err := h.chat.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, "failed to list conversations")
		return
	}
	response.Success(c, gin.H{"conversations": conversations})
}

// CreateConversation handles POST /conversations. Returns 200 with the
// existing conversation when the pair already has an active one, 201
// when this call created it.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID := auth.GetUserID(c)

	var req domain.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "participant_id is required")
		return
	}

	conv, created, err := h.chat.CreateOrGetConversation(c.Request.Context(), userID, req.ParticipantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfConversation):
			response.InvalidArgument(c, "cannot open a conversation with yourself")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "participant not found")
		default:
			response.InternalError(c, "failed to open conversation")
		}
		return
	}

	if created {
		response.Created(c, conv)
		return
	}
	response.Success(c, conv)
}

// ListMessages handles GET /conversations/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := auth.GetUserID(c)
	conversationID := c.Param("id")

	messages, err := h.chat.ListMessages(c.Request.Context(), userID, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConversationNotFound):
			response.NotFound(c, "conversation not found")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, "not a participant of this conversation")
		default:
			response.InternalError(c, "failed to list messages")
		}
		return
	}
	response.Success(c, gin.H{"messages": messages})
}

// DeactivateConversation handles DELETE /conversations/:id. Admin-only.
func (h *ChatHandler) DeactivateConversation(c *gin.Context) {
	conversationID := c.Param("id")

	if err := h.chat.DeactivateConversation(c.Request.Context(), conversationID); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			response.NotFound(c, "conversation not found")
			return
		}
		response.InternalError(c, "failed to deactivate conversation")
		return
	}
	response.Success(c, gin.H{"deactivated": true})
}
