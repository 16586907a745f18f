package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/brainrotbuster/buster-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(tabID string) *DisplayClient {
	return &DisplayClient{
		TabID: tabID,
		Send:  make(chan []byte, 16),
	}
}

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewDisplayBroadcaster()
	go b.Run()

	client := newTestClient("tab-1")
	b.Register(client)
	require.Eventually(t, func() bool {
		return b.ClientCount("tab-1") == 1
	}, time.Second, 5*time.Millisecond)

	b.Unregister(client)
	require.Eventually(t, func() bool {
		return b.ClientCount("tab-1") == 0
	}, time.Second, 5*time.Millisecond)

	// Unregister closes the send channel.
	_, open := <-client.Send
	assert.False(t, open)
}

func TestBroadcasterPushRoutesByTab(t *testing.T) {
	b := NewDisplayBroadcaster()
	go b.Run()

	tab1 := newTestClient("tab-1")
	tab2 := newTestClient("tab-2")
	b.Register(tab1)
	b.Register(tab2)
	require.Eventually(t, func() bool {
		return b.ClientCount("tab-1") == 1 && b.ClientCount("tab-2") == 1
	}, time.Second, 5*time.Millisecond)

	b.Push(models.DisplayRequest{
		Kind:  "intervention",
		TabID: "tab-1",
		Intervention: &models.Intervention{
			Kind:  "nudge",
			Title: "Vibe Check! ✨",
		},
	})

	select {
	case message := <-tab1.Send:
		var decoded models.DisplayRequest
		require.NoError(t, json.Unmarshal(message, &decoded))
		assert.Equal(t, "intervention", decoded.Kind)
		require.NotNil(t, decoded.Intervention)
		assert.Equal(t, "nudge", decoded.Intervention.Kind)
	case <-time.After(time.Second):
		t.Fatal("tab-1 never received the display request")
	}

	select {
	case <-tab2.Send:
		t.Fatal("tab-2 must not receive a display addressed to tab-1")
	default:
	}
}

func TestBroadcasterPushWithoutTabGoesToAll(t *testing.T) {
	b := NewDisplayBroadcaster()
	go b.Run()

	tab1 := newTestClient("tab-1")
	tab2 := newTestClient("tab-2")
	b.Register(tab1)
	b.Register(tab2)
	require.Eventually(t, func() bool {
		return b.ClientCount("tab-1") == 1 && b.ClientCount("tab-2") == 1
	}, time.Second, 5*time.Millisecond)

	b.Push(models.DisplayRequest{Kind: "morningGate", MorningMessage: "Scrolling already? Go touch grass! 🌱"})

	for _, client := range []*DisplayClient{tab1, tab2} {
		select {
		case message := <-client.Send:
			var decoded models.DisplayRequest
			require.NoError(t, json.Unmarshal(message, &decoded))
			assert.Equal(t, "morningGate", decoded.Kind)
		case <-time.After(time.Second):
			t.Fatalf("client for tab %s never received the broadcast", client.TabID)
		}
	}
}

func TestBroadcasterPushDropsWhenNoClients(t *testing.T) {
	b := NewDisplayBroadcaster()
	go b.Run()

	// Must not panic or block with no clients attached.
	b.Push(models.DisplayRequest{Kind: "intervention", TabID: "tab-9"})
}

func TestBroadcasterSlowClientDoesNotBlock(t *testing.T) {
	b := NewDisplayBroadcaster()
	go b.Run()

	slow := &DisplayClient{TabID: "tab-1", Send: make(chan []byte)} // unbuffered, never read
	b.Register(slow)
	require.Eventually(t, func() bool {
		return b.ClientCount("tab-1") == 1
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		b.Push(models.DisplayRequest{Kind: "intervention", TabID: "tab-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a slow client")
	}
}
