package hub

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/config"
)

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

// newBoundClient registers a client and binds it to userID, as the
// identity gate would after a successful handshake.
func newBoundClient(h *Hub, id, userID string) *Client {
	c := NewClient(id, h, nil, testWSConfig())
	h.Register(c)
	c.Session.Bind(userID, "name-"+userID, "broken")
	h.Bind(c)
	return c
}

func TestHubRegisterAndBind(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	c := NewClient("ch-1", h, nil, testWSConfig())
	h.Register(c)

	// Unauthenticated channels are not fan-out targets.
	r.Empty(h.ChannelsFor("user-a"))
	r.Zero(h.SessionCount("user-a"))

	c.Session.Bind("user-a", "Asha", "broken")
	h.Bind(c)

	channels := h.ChannelsFor("user-a")
	r.Len(channels, 1)
	r.Equal("ch-1", channels[0].ID)
	r.Equal(1, h.SessionCount("user-a"))
}

func TestHubMultipleChannelsPerUser(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	newBoundClient(h, "ch-1", "user-a")
	newBoundClient(h, "ch-2", "user-a")
	newBoundClient(h, "ch-3", "user-b")

	r.Equal(2, h.SessionCount("user-a"))
	r.Equal(1, h.SessionCount("user-b"))
	r.Len(h.ChannelsFor("user-a"), 2)
}

func TestHubUnregister(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	c1 := newBoundClient(h, "ch-1", "user-a")
	newBoundClient(h, "ch-2", "user-a")

	h.Unregister(c1)
	r.Equal(1, h.SessionCount("user-a"))

	// The send queue is closed so the write pump drains out.
	_, open := <-c1.Send
	r.False(open)

	// Duplicate disconnect events are harmless.
	h.Unregister(c1)
	r.Equal(1, h.SessionCount("user-a"))
}

func TestHubPushToUser(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	a1 := newBoundClient(h, "ch-a1", "user-a")
	a2 := newBoundClient(h, "ch-a2", "user-a")
	b1 := newBoundClient(h, "ch-b1", "user-b")

	payload := []byte(`{"type":"new_message"}`)
	delivered := h.PushToUser("user-a", payload)
	r.Equal(2, delivered)

	r.Equal(payload, <-a1.Send)
	r.Equal(payload, <-a2.Send)

	select {
	case <-b1.Send:
		t.Fatal("payload leaked to another user's channel")
	default:
	}

	// Offline user: nothing delivered, no error.
	r.Zero(h.PushToUser("user-c", payload))
}

func TestHubPushToUserDropsStalledChannel(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	stalled := newBoundClient(h, "ch-a1", "user-a")
	healthy := newBoundClient(h, "ch-a2", "user-a")

	for i := 0; i < cap(stalled.Send); i++ {
		stalled.Send <- []byte("backlog")
	}

	delivered := h.PushToUser("user-a", []byte("fresh"))
	r.Equal(1, delivered)

	// The healthy channel got the payload.
	select {
	case got := <-healthy.Send:
		r.Equal([]byte("fresh"), got)
	default:
		t.Fatal("healthy channel did not receive the payload")
	}

	// The stalled channel is evicted from the registry.
	r.Eventually(func() bool {
		return h.SessionCount("user-a") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSendJSONAfterEvictionDoesNotPanic(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	c := newBoundClient(h, "ch-a1", "user-a")
	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("backlog")
	}

	// Full queue gets the channel evicted in the background.
	r.Zero(h.PushToUser("user-a", []byte("fresh")))
	r.Eventually(func() bool {
		return h.SessionCount("user-a") == 0
	}, time.Second, 10*time.Millisecond)

	// The read goroutine may still be handing out replies; they must
	// be dropped, not panic on the closed queue.
	r.NoError(c.SendJSON(map[string]string{"type": "error"}))
	r.NoError(c.SendJSON(map[string]string{"type": "message_sent"}))
}

func TestSendJSONAfterUnregisterDoesNotPanic(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	c := newBoundClient(h, "ch-a1", "user-a")
	h.Unregister(c)

	r.NoError(c.SendJSON(map[string]string{"type": "pong"}))
	r.Zero(h.PushToUser("user-a", []byte("late")))
}

func TestHubConcurrentAccess(t *testing.T) {
	r := require.New(t)
	h := NewHub(testWSConfig())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%4)
			c := newBoundClient(h, fmt.Sprintf("ch-%d", i), userID)
			h.PushToUser(userID, []byte("ping"))
			h.ChannelsFor(userID)
			h.Unregister(c)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		r.Zero(h.SessionCount(fmt.Sprintf("user-%d", i)))
	}
}
