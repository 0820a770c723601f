package engine

import (
	"sync"
	"time"

	"github.com/mcoot/portfolio/internal/dependencies/clock"
	"github.com/mcoot/portfolio/internal/model"
)

// DefaultFrameRate is the number of ticks per second driven by a Loop
const DefaultFrameRate = 60

// FrameFunc is called after every tick with the result and a snapshot taken
// under the loop lock
type FrameFunc func(result TickResult, snapshot model.Snapshot)

// Loop owns a Game and is its single writer. Ticks come either from the
// loop's own ticker (Start/Stop) or from a host calling Tick directly; commands
// go through Apply. All of them take the same lock.
type Loop struct {
	mu   sync.Mutex
	game *Game

	clock    clock.Clock
	interval time.Duration
	onFrame  FrameFunc

	lifecycle sync.Mutex
	stop      chan struct{}
	done      chan struct{}

	// store serializes Persist against Close
	store  sync.Mutex
	closed bool
}

// NewLoop creates a stopped loop. A non-positive interval uses DefaultFrameRate.
func NewLoop(game *Game, clk clock.Clock, interval time.Duration, onFrame FrameFunc) *Loop {
	if interval <= 0 {
		interval = time.Second / DefaultFrameRate
	}
	return &Loop{
		game:     game,
		clock:    clk,
		interval: interval,
		onFrame:  onFrame,
	}
}

// Start begins ticking in the background. Calling Start on a running loop does nothing.
func (l *Loop) Start() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	ticker := l.clock.NewTicker(l.interval)
	go l.run(ticker, l.stop, l.done)
}

// Stop halts the background ticker and waits for the goroutine to exit.
// The game state is left as is.
func (l *Loop) Stop() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.stop == nil {
		return
	}
	close(l.stop)
	<-l.done
	l.stop = nil
	l.done = nil
}

// Running reports whether the background ticker is active
func (l *Loop) Running() bool {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	return l.stop != nil
}

func (l *Loop) run(ticker clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			l.Tick()
		}
	}
}

// Tick advances the game by one frame and notifies the frame callback
func (l *Loop) Tick() TickResult {
	l.mu.Lock()
	result := l.game.Tick()
	snapshot := l.game.Snapshot()
	l.mu.Unlock()

	if l.onFrame != nil {
		l.onFrame(result, snapshot)
	}
	return result
}

// Apply executes a command under the loop lock. before is the state the
// command was applied to.
func (l *Loop) Apply(cmd model.Command) (changed bool, before model.GameState, snapshot model.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	before = l.game.State()
	changed = l.game.Apply(cmd)
	return changed, before, l.game.Snapshot()
}

// Snapshot returns the current state
func (l *Loop) Snapshot() model.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.game.Snapshot()
}

// Session returns a deep copy of the aggregate, suitable for persisting
func (l *Loop) Session() *model.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.game.Session().Clone()
}

// Persist passes a copy of the session to save. Once the loop is closed it
// does nothing, so a late save cannot bring a removed session back.
func (l *Loop) Persist(save func(*model.Session) error) error {
	l.store.Lock()
	defer l.store.Unlock()
	if l.closed {
		return nil
	}
	return save(l.Session())
}

// Close stops the ticker, marks the loop closed and runs remove while no
// Persist can interleave. remove may be nil.
func (l *Loop) Close(remove func() error) error {
	l.Stop()
	l.store.Lock()
	defer l.store.Unlock()
	l.closed = true
	if remove == nil {
		return nil
	}
	return remove()
}

// Closed reports whether Close has been called
func (l *Loop) Closed() bool {
	l.store.Lock()
	defer l.store.Unlock()
	return l.closed
}
