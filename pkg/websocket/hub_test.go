package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(hub *Hub, userID uint64, buffer int) *Client {
	return &Client{
		Hub:    hub,
		Send:   make(chan []byte, buffer),
		UserID: userID,
		logger: zap.NewNop(),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := newTestClient(hub, 1, 1)

	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())

	// Double registration must not duplicate the connection.
	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	// Unregistering twice is a no-op and must not close Send twice.
	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	first := newTestClient(hub, 1, 1)
	second := newTestClient(hub, 2, 1)
	hub.Register(first)
	hub.Register(second)

	err := hub.Broadcast("announcement_created", map[string]string{"title": "maintenance window"})
	require.NoError(t, err)

	for _, client := range []*Client{first, second} {
		raw := <-client.Send

		var envelope Envelope
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, "announcement_created", envelope.Type)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "maintenance window", data["title"])
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	slow := newTestClient(hub, 1, 1)
	hub.Register(slow)

	// Fill the buffer so the next send would block.
	require.NoError(t, hub.Broadcast("tag_created", nil))
	require.NoError(t, hub.Broadcast("tag_created", nil))

	assert.Equal(t, 0, hub.ClientCount())

	// The channel was closed on drop: drain the buffered message, then
	// expect the closed signal.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHubSendToUsersTargetsOnlyListedUsers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sender := newTestClient(hub, 1, 1)
	recipient := newTestClient(hub, 2, 1)
	bystander := newTestClient(hub, 3, 1)
	hub.Register(sender)
	hub.Register(recipient)
	hub.Register(bystander)

	err := hub.SendToUsers([]uint64{1, 2}, "direct_message", map[string]uint64{"sender_id": 1})
	require.NoError(t, err)

	assert.Len(t, sender.Send, 1)
	assert.Len(t, recipient.Send, 1)
	assert.Len(t, bystander.Send, 0)
}

func TestHubSendToUsersMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	laptop := newTestClient(hub, 7, 1)
	phone := newTestClient(hub, 7, 1)
	hub.Register(laptop)
	hub.Register(phone)

	require.NoError(t, hub.SendToUsers([]uint64{7}, "notification_created", nil))

	assert.Len(t, laptop.Send, 1)
	assert.Len(t, phone.Send, 1)
}

func TestHubSendToUsersSkipsOfflineUsers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	online := newTestClient(hub, 1, 1)
	hub.Register(online)

	require.NoError(t, hub.SendToUsers([]uint64{1, 99}, "notification_created", nil))
	assert.Len(t, online.Send, 1)
}

func TestEnvelopeMarshal(t *testing.T) {
	raw, err := Envelope{Type: "file_uploaded", Data: map[string]uint64{"id": 5}}.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"file_uploaded","data":{"id":5}}`, string(raw))
}
