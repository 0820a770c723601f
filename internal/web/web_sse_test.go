package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/portfolio/internal/model"
)

// stream opens the event stream for a game and returns once the handler exits
func (ts *webTestServer) stream(id model.SessionID, timeout time.Duration) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/play/"+string(id)+"/events", nil)
	ts.cookies.addTo(req)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t)
	id := ts.startGame("web000000001", "tok-1")

	rr := ts.stream(id, 100*time.Millisecond)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
}

// TestSSE_InitialEvents verifies a new stream starts with the current frame and board
func TestSSE_InitialEvents(t *testing.T) {
	ts := newWebTestServer(t)
	id := ts.startGame("web000000001", "tok-1")

	body := ts.stream(id, 100*time.Millisecond).Body.String()

	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `data: {"status":"connected"}`)
	assert.Contains(t, body, "event: frame\n")
	assert.Contains(t, body, `"session_id":"web000000001"`)
	assert.Contains(t, body, "event: board\n")
	assert.Contains(t, body, `data-state="paused"`)
}

// TestSSE_SpectatorsMayWatch verifies streams do not need the owner token
func TestSSE_SpectatorsMayWatch(t *testing.T) {
	ts := newWebTestServer(t)
	id := ts.startGame("web000000001", "tok-1")

	rr := ts.visitor().stream(id, 50*time.Millisecond)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "event: connected")
}

// TestSSE_UnknownGame verifies missing games are rejected before streaming
func TestSSE_UnknownGame(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.stream("missing", 50*time.Millisecond)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEqual(t, "text/event-stream", rr.Header().Get("Content-Type"))
}

// TestSSE_ReceivesCommandUpdates verifies commands are pushed to open streams
func TestSSE_ReceivesCommandUpdates(t *testing.T) {
	ts := newWebTestServer(t)
	id := ts.startGame("web000000001", "tok-1")

	var rr *httptest.ResponseRecorder
	done := make(chan struct{})
	go func() {
		rr = ts.visitor().stream(id, 500*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(id)
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	changed, _, err := ts.app.SessionController.Command(context.Background(), id, model.CommandResume)
	require.NoError(t, err)
	require.True(t, changed)

	<-done
	body := rr.Body.String()
	assert.Contains(t, body, "event: resumed\n")
	assert.Contains(t, body, `data-state="running"`)
}

// TestSSE_EndingGameClosesStream verifies streams finish when the game is deleted
func TestSSE_EndingGameClosesStream(t *testing.T) {
	ts := newWebTestServer(t)
	id := ts.startGame("web000000001", "tok-1")

	done := make(chan struct{})
	go func() {
		ts.visitor().stream(id, 5*time.Second)
		close(done)
	}()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(id)
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	rr := ts.post("/play/"+string(id)+"/end", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after the game ended")
	}
}
