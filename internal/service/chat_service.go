package service

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/Dayavats/samvaad/internal/audit"
	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/cache"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/hub"
	"github.com/Dayavats/samvaad/internal/kafka"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/pkg/log"
)

// chatService routes messages between the durable stores and the live
// session registry. Delivery is two-phase: persist first, then fan out
// to every live channel of both participants, best-effort per channel.
type chatService struct {
	hub           *hub.Hub
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	users         repository.UserRepository
	tokens        *auth.Manager

	// Optional side channels, nil when disabled.
	producer kafka.EventProducer
	history  cache.HistoryCache

	group singleflight.Group
}

// NewChatService wires the delivery router. producer and historyCache
// may be nil.
func NewChatService(
	h *hub.Hub,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	tokens *auth.Manager,
	producer kafka.EventProducer,
	historyCache cache.HistoryCache,
) ChatService {
	return &chatService{
		hub:           h,
		conversations: conversations,
		messages:      messages,
		users:         users,
		tokens:        tokens,
		producer:      producer,
		history:       historyCache,
	}
}

// HandleAuth verifies the connect token, checks the account is still
// in good standing and binds the identity to the channel's session.
// On failure the caller closes the channel; nothing was registered for
// fan-out yet.
func (s *chatService) HandleAuth(ctx context.Context, c *hub.Client, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		audit.Log(ctx, audit.ActionAuthFailed, "", "channel auth rejected: bad token")
		c.SendJSON(&domain.AuthResultMessage{
			Type:    domain.MsgTypeAuthResult,
			Success: false,
			Message: "invalid or expired token",
		})
		return err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		audit.Log(ctx, audit.ActionAuthFailed, claims.UserID, "channel auth rejected: unknown user")
		c.SendJSON(&domain.AuthResultMessage{
			Type:    domain.MsgTypeAuthResult,
			Success: false,
			Message: "unknown user",
		})
		return err
	}
	if user.Banned {
		audit.Log(ctx, audit.ActionAuthFailed, user.ID, "channel auth rejected: banned")
		c.SendJSON(&domain.AuthResultMessage{
			Type:    domain.MsgTypeAuthResult,
			Success: false,
			Message: "account is banned",
		})
		return ErrBanned
	}

	c.Session.Bind(user.ID, user.Name, user.Role)
	s.hub.Bind(c)

	audit.Log(ctx, audit.ActionConnect, user.ID, "channel authenticated")
	return c.SendJSON(&domain.AuthResultMessage{
		Type:    domain.MsgTypeAuthResult,
		Success: true,
		UserID:  user.ID,
		Name:    user.Name,
	})
}

// HandleSendMessage runs the full delivery pipeline for one send:
// membership check, durable append, last-message pointer move, then
// fan-out. The sender's ack reflects persistence only; fan-out failures
// never surface to the sender.
func (s *chatService) HandleSendMessage(ctx context.Context, c *hub.Client, conversationID, text string) error {
	senderID := c.Session.UserID()

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.Active {
		return repository.ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		return ErrForbidden
	}

	msg, err := s.messages.Append(ctx, conversationID, senderID, text)
	if err != nil {
		return err
	}

	// The message is committed from here on. A failed pointer move is
	// recoverable metadata drift, not a lost message: the next append
	// overwrites it and readers see the message either way.
	if err := s.conversations.RecordNewMessage(ctx, conversationID, msg.ID, msg.CreatedAt); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).
			Str(log.FieldConversationID, conversationID).
			Str(log.FieldMessageID, msg.ID).
			Msg("last-message pointer update failed after append")
	}

	s.afterCommit(ctx, msg)
	audit.LogWithTarget(ctx, audit.ActionSendMessage, senderID, conversationID, "message sent")

	s.fanOut(ctx, conv, msg)

	return c.SendJSON(&domain.MessageSentAck{
		Type:    domain.MsgTypeMessageSent,
		Message: msg.ToResponse(),
	})
}

// fanOut pushes the committed message to every live channel of both
// participants, the sender's own channels included.
func (s *chatService) fanOut(ctx context.Context, conv *domain.Conversation, msg *domain.Message) {
	event := &domain.NewMessageEvent{
		Type:           domain.MsgTypeNewMessage,
		Message:        msg.ToResponse(),
		ConversationID: conv.ID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldMessageID, msg.ID).Msg("fan-out payload encode failed")
		return
	}

	delivered := 0
	for _, userID := range conv.Participants() {
		delivered += s.hub.PushToUser(userID, payload)
	}

	l := log.Ctx(ctx)
	l.Debug().
		Str(log.FieldConversationID, conv.ID).
		Str(log.FieldMessageID, msg.ID).
		Int("delivered", delivered).
		Msg("message fanned out")
}

// afterCommit runs the best-effort side channels for a committed
// message: history cache invalidation and the analytics firehose.
func (s *chatService) afterCommit(ctx context.Context, msg *domain.Message) {
	if s.history != nil {
		if err := s.history.Invalidate(ctx, msg.ConversationID); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldConversationID, msg.ConversationID).Msg("history cache invalidation failed")
		}
	}
	if s.producer != nil {
		event := &kafka.MessageSentEvent{
			MessageID:      msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			CreatedAt:      msg.CreatedAt,
		}
		if err := s.producer.ProduceMessageSent(ctx, event); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldMessageID, msg.ID).Msg("message event publish failed")
		}
	}
}

// HandleDisconnect drops the channel from the registry. Safe to call
// for an already-removed channel.
func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.hub.Unregister(c)
	return nil
}

// ListConversations returns the caller's active conversations, most
// recently active first, each with both participant profiles and the
// last message preview.
func (s *chatService) ListConversations(ctx context.Context, userID string) ([]domain.ConversationResponse, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		resp, err := s.toConversationResponse(ctx, &conversations[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// CreateOrGetConversation opens the conversation between the caller
// and participantID, returning the existing active one when the pair
// already has it. The bool reports whether this call created it.
func (s *chatService) CreateOrGetConversation(ctx context.Context, userID, participantID string) (*domain.ConversationResponse, bool, error) {
	if participantID == userID {
		return nil, false, ErrSelfConversation
	}
	if _, err := s.users.GetByID(ctx, participantID); err != nil {
		return nil, false, err
	}

	conv, created, err := s.conversations.CreateOrGet(ctx, userID, participantID)
	if err != nil {
		return nil, false, err
	}

	resp, err := s.toConversationResponse(ctx, conv)
	if err != nil {
		return nil, false, err
	}
	return resp, created, nil
}

// ListMessages returns a conversation's full message history in append
// order. Only participants may read it. Concurrent reads of the same
// conversation collapse onto one store query.
func (s *chatService) ListMessages(ctx context.Context, userID, conversationID string) ([]domain.MessageResponse, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}

	if s.history != nil {
		if cached, err := s.history.Get(ctx, conversationID); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldConversationID, conversationID).Msg("history cache read failed")
		}
	}

	result, err, _ := s.group.Do(conversationID, func() (interface{}, error) {
		messages, err := s.messages.ListForConversation(ctx, conversationID)
		if err != nil {
			return nil, err
		}

		responses := make([]domain.MessageResponse, 0, len(messages))
		for i := range messages {
			responses = append(responses, *messages[i].ToResponse())
		}

		if s.history != nil {
			if err := s.history.Set(ctx, conversationID, responses); err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str(log.FieldConversationID, conversationID).Msg("history cache write failed")
			}
		}
		return responses, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.MessageResponse), nil
}

// DeactivateConversation closes a conversation, freeing the pair to
// open a fresh one later.
func (s *chatService) DeactivateConversation(ctx context.Context, conversationID string) error {
	if err := s.conversations.Deactivate(ctx, conversationID); err != nil {
		return err
	}
	if s.history != nil {
		if err := s.history.Invalidate(ctx, conversationID); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldConversationID, conversationID).Msg("history cache invalidation failed")
		}
	}
	return nil
}

// Stop flushes the event producer and closes the history cache.
func (s *chatService) Stop() error {
	var firstErr error
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			firstErr = err
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *chatService) toConversationResponse(ctx context.Context, conv *domain.Conversation) (*domain.ConversationResponse, error) {
	participants := make([]*domain.UserResponse, 0, 2)
	for _, userID := range conv.Participants() {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		participants = append(participants, &domain.UserResponse{
			ID:   user.ID,
			Name: user.Name,
			Role: user.Role,
		})
	}

	resp := &domain.ConversationResponse{
		ID:            conv.ID,
		Participants:  participants,
		LastMessageAt: conv.LastMessageAt,
		CreatedAt:     conv.CreatedAt,
	}

	if conv.LastMessageID != "" {
		if msg, err := s.messages.GetByID(ctx, conv.LastMessageID); err == nil {
			resp.LastMessage = msg.ToResponse()
		}
	}
	return resp, nil
}
