package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToRegisteredUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "u1")
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastToUser("u1", map[string]interface{}{"type": "friend_request"})

	select {
	case msg := <-client.send:
		assert.Equal(t, "notification", msg.Type)
		assert.Equal(t, "friend_request", msg.Payload["type"])
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	// Events for other users must not reach this client.
	hub.BroadcastToUser("u2", map[string]interface{}{"type": "friend_request"})
	select {
	case <-client.send:
		t.Fatal("message delivered to the wrong user")
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 0 },
		time.Second, 10*time.Millisecond)
}

func TestHubMultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil, "u1")
	second := NewClient(hub, nil, "u1")
	hub.register <- first
	hub.register <- second
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 2 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastToUser("u1", map[string]interface{}{"type": "friend_accepted"})

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.Equal(t, "friend_accepted", msg.Payload["type"])
		case <-time.After(time.Second):
			t.Fatal("connection missed the broadcast")
		}
	}
}
