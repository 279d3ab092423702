package domain

import (
	"sync"
	"time"
)

// Session is the identity bound to one WebSocket channel. It starts
// unauthenticated; Bind is called exactly once after the identity gate
// verifies the connect token.
type Session struct {
	ChannelID    string
	CreatedAt    time.Time
	lastActiveAt time.Time

	mu            sync.RWMutex
	userID        string
	name          string
	role          string
	authenticated bool
}

// NewSession creates an unauthenticated session for a channel.
func NewSession(channelID string) *Session {
	now := time.Now()
	return &Session{
		ChannelID:    channelID,
		CreatedAt:    now,
		lastActiveAt: now,
	}
}

// Bind attaches a verified identity to the session.
func (s *Session) Bind(userID, name, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.name = name
	s.role = role
	s.authenticated = true
	s.lastActiveAt = time.Now()
}

// IsAuthenticated reports whether an identity is bound.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// UserID returns the bound user ID, empty when unauthenticated.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Name returns the bound display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Role returns the bound role.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Touch records channel activity.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = time.Now()
}
