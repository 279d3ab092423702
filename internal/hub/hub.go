package hub

import (
	"sync"

	"github.com/Dayavats/samvaad/internal/config"
	"github.com/Dayavats/samvaad/pkg/log"
)

// Hub is the process-local session registry: it maps each user to the
// set of live channels currently reachable for them and fans events out
// to those channels.
//
// All mutation and lookup happens under one lock, so ChannelsFor always
// reflects the latest Register/Unregister and a channel never shows up
// twice or leaks after removal. The registry is lost on restart;
// clients re-register on reconnect.
type Hub struct {
	mu           sync.RWMutex
	clients      map[string]*Client            // channelID -> client
	userChannels map[string]map[string]*Client // userID -> channelID -> client
	config       config.WebSocketConfig
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		userChannels: make(map[string]map[string]*Client),
		config:       cfg,
	}
}

// Register adds a connecting channel. The channel is not a fan-out
// target until Bind attaches an authenticated identity.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldChannelID, client.ID).Msg("channel registered")
}

// Bind attaches an authenticated channel to its user's session set.
// Idempotent per channel.
func (h *Hub) Bind(client *Client) {
	userID := client.Session.UserID()
	if userID == "" {
		return
	}

	h.mu.Lock()
	if _, ok := h.userChannels[userID]; !ok {
		h.userChannels[userID] = make(map[string]*Client)
	}
	h.userChannels[userID][client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Info().Str(log.FieldChannelID, client.ID).Str(log.FieldUserID, userID).Msg("channel bound to user")
}

// Unregister removes a channel from the registry and closes its send
// queue. No-op for a channel already removed, so duplicate disconnect
// events are harmless.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.ID]
	if known {
		delete(h.clients, client.ID)
		if userID := client.Session.UserID(); userID != "" {
			if channels, ok := h.userChannels[userID]; ok {
				delete(channels, client.ID)
				if len(channels) == 0 {
					delete(h.userChannels, userID)
				}
			}
		}
		client.closeSend()
	}
	h.mu.Unlock()

	if known {
		l := log.L()
		l.Debug().Str(log.FieldChannelID, client.ID).Msg("channel unregistered")
	}
}

// ChannelsFor returns a snapshot of the user's live channels. Empty
// when the user is offline.
func (h *Hub) ChannelsFor(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channels := h.userChannels[userID]
	if len(channels) == 0 {
		return nil
	}

	out := make([]*Client, 0, len(channels))
	for _, client := range channels {
		out = append(out, client)
	}
	return out
}

// PushToUser delivers a payload to every live channel of a user,
// best-effort. A channel whose send queue is full is dropped rather
// than allowed to stall delivery to the others. Returns the number of
// channels the payload was queued for.
//
// Sends go through trySend, which checks the client's closed flag, so
// a push never races the close in Unregister.
func (h *Hub) PushToUser(userID string, payload []byte) int {
	var stalled []*Client

	h.mu.RLock()
	delivered := 0
	for _, client := range h.userChannels[userID] {
		switch client.trySend(payload) {
		case sendQueued:
			delivered++
		case sendFull:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		go h.Unregister(client)
	}
	return delivered
}

// SessionCount returns the number of live channels for a user.
func (h *Hub) SessionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userChannels[userID])
}
