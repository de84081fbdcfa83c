package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		hub.Run(ctx)
	}()
	return hub, cancel, stopped
}

func TestHubBroadcastsToRoom(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel, stopped := startHub(t)
	defer func() {
		cancel()
		<-stopped
	}()

	screen := NewClient(hub, nil, EventRoom(7))
	other := NewClient(hub, nil, EventRoom(8))
	require.True(t, hub.Join(screen))
	require.True(t, hub.Join(other))
	require.Eventually(t, func() bool { return hub.RoomSize("event_7") == 1 }, time.Second, 5*time.Millisecond)

	delivered := hub.BroadcastToRoom(EventRoom(7), DisplayMessage{
		Type:    MessageBracketGenerated,
		Payload: map[string]string{"category": "ADULTO / MASCULINO / LEVE / AZUL"},
		RoomID:  EventRoom(7),
	})
	assert.Equal(t, 1, delivered)

	var got DisplayMessage
	require.NoError(t, json.Unmarshal(<-screen.Send, &got))
	assert.Equal(t, MessageBracketGenerated, got.Type)
	assert.Equal(t, "event_7", got.RoomID)
	assert.Empty(t, other.Send)

	assert.Zero(t, hub.BroadcastToRoom("event_99", DisplayMessage{Type: MessageBracketGenerated}))
}

func TestHubLeaveClosesSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel, stopped := startHub(t)
	defer func() {
		cancel()
		<-stopped
	}()

	c := NewClient(hub, nil, EventRoom(1))
	require.True(t, hub.Join(c))
	hub.Leave(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.RoomSize(EventRoom(1)))
	assert.False(t, c.trySend([]byte("late")))
}

func TestHubStopClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel, stopped := startHub(t)
	c := NewClient(hub, nil, EventRoom(3))
	require.True(t, hub.Join(c))
	require.Eventually(t, func() bool { return hub.RoomSize(EventRoom(3)) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, hub.Join(NewClient(hub, nil, EventRoom(3))))
	hub.Leave(c)
}

func TestHubSkipsFullClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, cancel, stopped := startHub(t)
	defer func() {
		cancel()
		<-stopped
	}()

	c := NewClient(hub, nil, EventRoom(2))
	require.True(t, hub.Join(c))
	require.Eventually(t, func() bool { return hub.RoomSize(EventRoom(2)) == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBufferSize; i++ {
		require.Equal(t, 1, hub.BroadcastToRoom(EventRoom(2), DisplayMessage{Type: "PING"}))
	}
	assert.Zero(t, hub.BroadcastToRoom(EventRoom(2), DisplayMessage{Type: "PING"}))
}
