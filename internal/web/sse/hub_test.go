package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/portfolio/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line data", "frame", `{"score":0}`, "event: frame\ndata: {\"score\":0}\n\n"},
		{"multi-line data", "board", "<div>\n  <p>x</p>\n</div>", "event: board\ndata: <div>\ndata:   <p>x</p>\ndata: </div>\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"carriage returns", "test", "line1\r\nline2", "event: test\ndata: line1\ndata: line2\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"hello", []string{"hello"}},
		{"line1\nline2", []string{"line1", "line2"}},
		{"line1\n", []string{"line1"}},
		{"", []string{""}},
		{"line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitLines(tt.input), "input %q", tt.input)
	}
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("sess1", testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, "viewer1")
	require.True(t, hub.Register(client))
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastEvent("frame", "data")
	assert.Equal(t, "event: frame\ndata: data\n\n", receive(t, client))
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, "viewer1")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.send
	assert.False(t, open)

	// A second unregister is ignored
	hub.Unregister(client)
}

func TestHubBroadcastToMultipleClients(t *testing.T) {
	hub := newRunningHub(t)

	clients := []*Client{NewClient(hub, "a"), NewClient(hub, "b"), NewClient(hub, "c")}
	for _, c := range clients {
		require.True(t, hub.Register(c))
	}
	assert.Equal(t, 3, hub.ClientCount())

	hub.BroadcastEvent("update", "data")
	for _, c := range clients {
		assert.Equal(t, "event: update\ndata: data\n\n", receive(t, c))
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub("sess1", testutil.NopLogger())
	go hub.Run()

	client := NewClient(hub, "viewer1")
	require.True(t, hub.Register(client))

	hub.Close()
	hub.Close()

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client channel was not closed")
	}
	assert.False(t, hub.Register(NewClient(hub, "late")))
}

func TestHubManagerGetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()

	hub1 := manager.GetOrCreateHub("abc")
	require.NotNil(t, hub1)
	assert.Same(t, hub1, manager.GetOrCreateHub("abc"))
	assert.NotSame(t, hub1, manager.GetOrCreateHub("xyz"))
}

func TestHubManagerGetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()

	assert.Nil(t, manager.GetHub("missing"))
	created := manager.GetOrCreateHub("abc")
	assert.Same(t, created, manager.GetHub("abc"))
}

func TestHubManagerRemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("abc")
	manager.RemoveHub("abc")
	assert.Nil(t, manager.GetHub("abc"))

	manager.RemoveHub("missing")
}
