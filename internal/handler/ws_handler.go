package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/config"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/hub"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/internal/service"
	"github.com/Dayavats/samvaad/pkg/log"
)

// WSHandler upgrades HTTP requests into chat channels and dispatches
// their frames. The first frame on every channel must be auth; until
// it succeeds all other frames are rejected and the channel closed.
type WSHandler struct {
	hub      *hub.Hub
	chat     service.ChatService
	wsConfig config.WebSocketConfig
	upgrader websocket.Upgrader
}

// NewWSHandler creates the WebSocket entry point.
func NewWSHandler(h *hub.Hub, chat service.ChatService, wsConfig config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:      h,
		chat:     chat,
		wsConfig: wsConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and runs the channel pumps.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsConfig)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleFrame)
}

// handleFrame dispatches one inbound frame. Runs on the channel's read
// goroutine, so frames from one channel are handled in order.
func (h *WSHandler) handleFrame(client *hub.Client, data []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		client.SendJSON(domain.NewErrorMessage(domain.ErrCodeBadRequest, "malformed frame"))
		return
	}

	ctx := context.Background()

	if !client.Session.IsAuthenticated() {
		if base.Type != domain.MsgTypeAuth {
			client.SendJSON(domain.NewErrorMessage(domain.ErrCodeUnauthorized, "authenticate first"))
			client.Conn.Close()
			return
		}
		h.handleAuth(ctx, client, data)
		return
	}

	switch base.Type {
	case domain.MsgTypeAuth:
		// Re-auth on a bound channel is a no-op.
		client.SendJSON(&domain.AuthResultMessage{
			Type:    domain.MsgTypeAuthResult,
			Success: true,
			UserID:  client.Session.UserID(),
			Name:    client.Session.Name(),
		})
	case domain.MsgTypeSendMessage:
		h.handleSendMessage(ctx, client, data)
	case domain.MsgTypePing:
		client.SendJSON(&domain.BaseMessage{Type: domain.MsgTypePong})
	default:
		client.SendJSON(domain.NewErrorMessage(domain.ErrCodeBadRequest, "unknown message type"))
	}
}

func (h *WSHandler) handleAuth(ctx context.Context, client *hub.Client, data []byte) {
	var msg domain.AuthMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Token == "" {
		client.SendJSON(domain.NewErrorMessage(domain.ErrCodeBadRequest, "auth frame requires a token"))
		client.Conn.Close()
		return
	}

	if err := h.chat.HandleAuth(ctx, client, msg.Token); err != nil {
		client.Conn.Close()
	}
}

func (h *WSHandler) handleSendMessage(ctx context.Context, client *hub.Client, data []byte) {
	var msg domain.SendMessageWS
	if err := json.Unmarshal(data, &msg); err != nil {
		client.SendJSON(domain.NewErrorMessage(domain.ErrCodeBadRequest, "malformed send_message frame"))
		return
	}
	if msg.ConversationID == "" {
		client.SendJSON(domain.NewErrorMessage(domain.ErrCodeInvalidArgument, "conversation_id is required"))
		return
	}

	if err := h.chat.HandleSendMessage(ctx, client, msg.ConversationID, msg.Text); err != nil {
		client.SendJSON(wsError(err))
	}
}

// wsError maps a service error onto the channel error taxonomy.
func wsError(err error) *domain.ErrorMessage {
	switch {
	case errors.Is(err, repository.ErrConversationNotFound):
		return domain.NewErrorMessage(domain.ErrCodeNotFound, "conversation not found")
	case errors.Is(err, service.ErrForbidden):
		return domain.NewErrorMessage(domain.ErrCodeForbidden, "not a participant of this conversation")
	case errors.Is(err, repository.ErrEmptyText):
		return domain.NewErrorMessage(domain.ErrCodeInvalidArgument, "message text must not be empty")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return domain.NewErrorMessage(domain.ErrCodeUnauthorized, "invalid or expired token")
	default:
		return domain.NewErrorMessage(domain.ErrCodeInternal, "internal error")
	}
}
