package service

import (
	"context"

	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/hub"
)

// ChatService is the delivery router plus the conversation read path.
type ChatService interface {
	// HandleAuth runs the identity handshake on a fresh channel.
	HandleAuth(ctx context.Context, c *hub.Client, token string) error

	// HandleSendMessage persists a send and fans it out to every live
	// session of both participants.
	HandleSendMessage(ctx context.Context, c *hub.Client, conversationID, text string) error

	// HandleDisconnect releases registry state for a channel.
	HandleDisconnect(ctx context.Context, c *hub.Client) error

	// Read path, shared with REST.
	ListConversations(ctx context.Context, userID string) ([]domain.ConversationResponse, error)
	CreateOrGetConversation(ctx context.Context, userID, participantID string) (*domain.ConversationResponse, bool, error)
	ListMessages(ctx context.Context, userID, conversationID string) ([]domain.MessageResponse, error)
	DeactivateConversation(ctx context.Context, conversationID string) error

	// Stop flushes outbound side channels.
	Stop() error
}

// UserService is the identity gate and profile CRUD.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error)
	ListPeers(ctx context.Context, userID string) ([]domain.UserResponse, error)
	SetRole(ctx context.Context, targetID, role string) (*domain.User, error)
	SetBanned(ctx context.Context, targetID string, banned bool) (*domain.User, error)
}

// FeedService is the post/story CRUD and moderation surface.
type FeedService interface {
	CreatePost(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.PostResponse, error)
	ListPosts(ctx context.Context) ([]domain.PostResponse, error)
	FlagPost(ctx context.Context, id string, flagged bool) (*domain.PostResponse, error)
	DeletePost(ctx context.Context, id string) error

	CreateStory(ctx context.Context, authorID string, req *domain.CreateStoryRequest) (*domain.StoryResponse, error)
	ListStories(ctx context.Context) ([]domain.StoryResponse, error)
	FlagStory(ctx context.Context, id string, flagged bool) (*domain.StoryResponse, error)
	DeleteStory(ctx context.Context, id string) error

	// PresignUpload returns a key and URL for a client-side image upload.
	PresignUpload(ctx context.Context, userID, contentType string) (key string, url string, err error)
}
