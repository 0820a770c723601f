package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/portfolio/internal/dependencies/mocks"
	"github.com/mcoot/portfolio/internal/services/profile"
	"github.com/mcoot/portfolio/internal/services/session"
	"github.com/mcoot/portfolio/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Sessions only advance through explicit ticks.
func NewTestApp() *TestApp {
	return NewTestAppWithProfile(profile.DefaultConfig())
}

// NewTestAppWithProfile is NewTestApp with custom upstream settings, typically
// pointing at an httptest server
func NewTestAppWithProfile(profileCfg profile.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.New(mockClock)

	sessionCfg := session.DefaultConfig()
	sessionCfg.AutoTick = false

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(store, mockClock, mockRandom, sessionCfg, profileCfg, nil, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueSession queues the random values consumed by one session Create:
// the session ID, the owner token and the first piece index
func (t *TestApp) QueueSession(id, token string, piece int) {
	t.MockRandom.QueueString(id)
	t.MockRandom.QueueToken(token)
	t.MockRandom.QueueIntn(piece)
}
