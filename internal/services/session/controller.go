package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/portfolio/internal/dependencies/clock"
	"github.com/mcoot/portfolio/internal/dependencies/random"
	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/services/engine"
	"github.com/mcoot/portfolio/internal/storage"
)

// Session ID generation
const (
	IDLength   = 12
	IDAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

	// TokenBytes is the amount of randomness in an owner token
	TokenBytes = 16

	// MaxTicksPerRequest bounds a single manual Tick call
	MaxTicksPerRequest = 10000

	maxIDAttempts = 10
)

// Config holds settings for the session controller
type Config struct {
	// AutoTick runs a background loop per active session
	AutoTick bool
	// FrameRate is the number of ticks per second when AutoTick is set
	FrameRate int
	// Delay is the number of ticks between drop steps
	Delay int
	// IdleTimeout is how long an unwatched session stays in memory without a
	// request. Zero keeps sessions until they are deleted.
	IdleTimeout time.Duration
	// ReapInterval is how often StartReaper looks for idle sessions
	ReapInterval time.Duration
}

// DefaultConfig returns the settings used by the server
func DefaultConfig() Config {
	return Config{
		AutoTick:     true,
		FrameRate:    engine.DefaultFrameRate,
		Delay:        model.DefaultDropDelay,
		IdleTimeout:  10 * time.Minute,
		ReapInterval: time.Minute,
	}
}

// Publisher receives session events, typically to fan them out to SSE clients
type Publisher interface {
	Publish(event model.Event)
	SessionClosed(id model.SessionID)
	// Watching reports whether anyone is subscribed to the session
	Watching(id model.SessionID) bool
}

// Controller owns the live game sessions. Each active session is driven by an
// engine.Loop, which is the only writer of its state.
type Controller struct {
	storage   storage.Storage
	clock     clock.Clock
	random    random.Random
	generator *engine.Generator
	publisher Publisher
	cfg       Config
	logger    *slog.Logger

	mu     sync.Mutex
	active map[model.SessionID]*entry

	reaperStop chan struct{}
	reaperDone chan struct{}
}

type entry struct {
	loop     *engine.Loop
	lastSeen time.Time
}

// NewController creates a new session Controller. publisher may be nil.
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	publisher Publisher,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = engine.DefaultFrameRate
	}
	if cfg.Delay <= 0 {
		cfg.Delay = model.DefaultDropDelay
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = time.Minute
	}
	return &Controller{
		storage:   storage,
		clock:     clock,
		random:    random,
		generator: engine.NewGenerator(random),
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "session")),
		active:    make(map[model.SessionID]*entry),
	}
}

// HashToken returns the stored form of an owner token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create starts a new paused session and returns it with the owner token.
// The token is only ever returned here.
func (c *Controller) Create(ctx context.Context) (*model.Session, string, error) {
	var id model.SessionID
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, "", errors.New("could not allocate a free session id")
		}
		id = model.SessionID(c.random.String(IDLength, IDAlphabet))
		if id == "" {
			continue
		}
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if !exists {
			break
		}
	}

	token := c.random.Token(TokenBytes)
	session := engine.NewSession(id, HashToken(token), c.generator, c.cfg.Delay, c.clock.Now())

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, "", fmt.Errorf("save session: %w", err)
	}

	loop := c.activate(session)

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.Bool("auto_tick", c.cfg.AutoTick),
	)

	return loop.Session(), token, nil
}

// Get returns the current snapshot of a session
func (c *Controller) Get(ctx context.Context, id model.SessionID) (model.Snapshot, error) {
	loop, err := c.loop(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return loop.Snapshot(), nil
}

// Authorize checks the owner token of a session
func (c *Controller) Authorize(ctx context.Context, id model.SessionID, token string) error {
	if token == "" {
		return model.ErrInvalidSessionToken
	}
	loop, err := c.loop(ctx, id)
	if err != nil {
		return err
	}
	expected := loop.Session().OwnerHash
	if subtle.ConstantTimeCompare([]byte(expected), []byte(HashToken(token))) != 1 {
		return model.ErrInvalidSessionToken
	}
	return nil
}

// Command applies a player command. Commands that do not apply in the current
// state are reported as unchanged rather than as errors.
func (c *Controller) Command(ctx context.Context, id model.SessionID, cmd model.Command) (bool, model.Snapshot, error) {
	loop, err := c.loop(ctx, id)
	if err != nil {
		return false, model.Snapshot{}, err
	}

	changed, before, snapshot := loop.Apply(cmd)
	if !changed {
		return false, snapshot, nil
	}

	if err := c.persist(ctx, loop); err != nil {
		return true, snapshot, err
	}

	c.publish(model.EventFrame, snapshot, 0)
	if event, ok := stateEvent(cmd, before, snapshot.State); ok {
		c.publish(event, snapshot, 0)
		c.logger.Info("session state changed",
			slog.String("session_id", string(id)),
			slog.String("from", string(before)),
			slog.String("to", string(snapshot.State)),
		)
	}
	return true, snapshot, nil
}

// stateEvent names the machine transition caused by a command, if any
func stateEvent(cmd model.Command, before, after model.GameState) (model.EventType, bool) {
	if cmd.IsMovement() {
		return "", false
	}
	if cmd == model.CommandRestart || (cmd == model.CommandClick && before == model.GameStateOver) {
		return model.EventRestarted, true
	}
	if before == after {
		return "", false
	}
	switch after {
	case model.GameStatePaused:
		return model.EventPaused, true
	case model.GameStateRunning:
		return model.EventResumed, true
	}
	return "", false
}

// Tick advances a session by n frames. It is how a host without a background
// loop drives the simulation.
func (c *Controller) Tick(ctx context.Context, id model.SessionID, n int) (model.Snapshot, error) {
	if n < 1 || n > MaxTicksPerRequest {
		return model.Snapshot{}, model.ErrInvalidTickCount
	}
	loop, err := c.loop(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	for i := 0; i < n; i++ {
		loop.Tick()
	}
	return loop.Snapshot(), nil
}

// Delete stops a session and removes it from storage. A request still holding
// the loop cannot save it again afterwards.
func (c *Controller) Delete(ctx context.Context, id model.SessionID) error {
	c.mu.Lock()
	e, ok := c.active[id]
	delete(c.active, id)
	c.mu.Unlock()

	remove := func() error {
		if err := c.storage.DeleteSession(ctx, id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}

	if ok {
		if err := e.loop.Close(remove); err != nil {
			return err
		}
	} else {
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrSessionNotFound
		}
		if err := remove(); err != nil {
			return err
		}
	}

	if c.publisher != nil {
		c.publisher.SessionClosed(id)
	}
	c.logger.Info("session deleted", slog.String("session_id", string(id)))
	return nil
}

// ActiveCount returns the number of sessions held in memory
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Shutdown stops the reaper and every loop, persisting the final state of each session
func (c *Controller) Shutdown(ctx context.Context) error {
	c.stopReaper()

	c.mu.Lock()
	loops := make([]*engine.Loop, 0, len(c.active))
	for _, e := range c.active {
		loops = append(loops, e.loop)
	}
	c.active = make(map[model.SessionID]*entry)
	c.mu.Unlock()

	var errs []error
	for _, loop := range loops {
		loop.Stop()
		if err := c.persist(ctx, loop); err != nil {
			errs = append(errs, err)
		}
	}
	c.logger.Info("sessions shut down", slog.Int("count", len(loops)))
	return errors.Join(errs...)
}

// StartReaper evicts idle sessions every ReapInterval until Shutdown. It does
// nothing when IdleTimeout is zero or the reaper is already running.
func (c *Controller) StartReaper() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.IdleTimeout <= 0 || c.reaperStop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.reaperStop, c.reaperDone = stop, done

	ticker := c.clock.NewTicker(c.cfg.ReapInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				c.Reap(context.Background())
			}
		}
	}()
}

func (c *Controller) stopReaper() {
	c.mu.Lock()
	stop, done := c.reaperStop, c.reaperDone
	c.reaperStop, c.reaperDone = nil, nil
	c.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Reap drops sessions that have been idle for IdleTimeout with nobody
// watching, and sessions whose stored record is gone. Idle sessions are saved
// before their loop is released; Get restores them on demand. Returns the
// number of sessions evicted.
func (c *Controller) Reap(ctx context.Context) int {
	c.mu.Lock()
	ids := make([]model.SessionID, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	evicted := 0
	for _, id := range ids {
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			c.logger.Warn("reaper could not check session",
				slog.String("session_id", string(id)),
				slog.String("error", err.Error()),
			)
			continue
		}

		loop, ok := c.evict(id, exists)
		if !ok {
			continue
		}
		evicted++

		if !exists {
			_ = loop.Close(nil)
			c.logger.Info("session expired", slog.String("session_id", string(id)))
		} else {
			loop.Stop()
			if err := c.persist(ctx, loop); err != nil {
				c.logger.Error("failed to persist evicted session",
					slog.String("session_id", string(id)),
					slog.String("error", err.Error()),
				)
			}
			c.logger.Info("session evicted", slog.String("session_id", string(id)))
		}
		if c.publisher != nil {
			c.publisher.SessionClosed(id)
		}
	}
	return evicted
}

// evict removes the entry if it is gone from storage or idle and unwatched
func (c *Controller) evict(id model.SessionID, exists bool) (*engine.Loop, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.active[id]
	if !ok {
		return nil, false
	}
	if exists {
		if c.cfg.IdleTimeout <= 0 || c.clock.Now().Sub(e.lastSeen) < c.cfg.IdleTimeout {
			return nil, false
		}
		if c.publisher != nil && c.publisher.Watching(id) {
			return nil, false
		}
	}
	delete(c.active, id)
	return e.loop, true
}

// loop returns the live loop for a session, restoring it from storage if needed
func (c *Controller) loop(ctx context.Context, id model.SessionID) (*engine.Loop, error) {
	c.mu.Lock()
	e, ok := c.active[id]
	if ok {
		e.lastSeen = c.clock.Now()
	}
	c.mu.Unlock()
	if ok {
		return e.loop, nil
	}

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	c.logger.Info("session restored", slog.String("session_id", string(id)))
	return c.activate(session), nil
}

// activate registers a loop for the session. If another caller registered one
// first, that loop wins.
func (c *Controller) activate(session *model.Session) *engine.Loop {
	game := engine.New(session, c.generator, engine.Options{
		Delay: c.cfg.Delay,
		Now:   c.clock.Now,
	})

	var loop *engine.Loop
	loop = engine.NewLoop(game, c.clock, time.Second/time.Duration(c.cfg.FrameRate),
		func(result engine.TickResult, snapshot model.Snapshot) {
			c.onFrame(loop, result, snapshot)
		})

	c.mu.Lock()
	if existing, ok := c.active[session.ID]; ok {
		existing.lastSeen = c.clock.Now()
		c.mu.Unlock()
		return existing.loop
	}
	c.active[session.ID] = &entry{loop: loop, lastSeen: c.clock.Now()}
	c.mu.Unlock()

	if c.cfg.AutoTick {
		loop.Start()
	}
	return loop
}

// onFrame publishes visible changes and persists after every landing
func (c *Controller) onFrame(loop *engine.Loop, result engine.TickResult, snapshot model.Snapshot) {
	if !result.Stepped {
		return
	}
	c.publish(model.EventFrame, snapshot, 0)
	if !result.Landed {
		return
	}

	c.publish(model.EventPieceLocked, snapshot, 0)
	if result.Lines > 0 {
		c.publish(model.EventLinesCleared, snapshot, result.Lines)
	}
	if result.GameOver {
		c.publish(model.EventGameOver, snapshot, 0)
		c.logger.Info("game over",
			slog.String("session_id", string(snapshot.SessionID)),
			slog.Int("score", snapshot.Score),
			slog.Int("lines", snapshot.Lines),
		)
	}

	if err := c.persist(context.Background(), loop); err != nil {
		c.logger.Error("failed to persist session after landing",
			slog.String("session_id", string(snapshot.SessionID)),
			slog.String("error", err.Error()),
		)
	}
}

// persist saves the loop's session unless it has been deleted
func (c *Controller) persist(ctx context.Context, loop *engine.Loop) error {
	return loop.Persist(func(session *model.Session) error {
		if err := c.storage.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
}

func (c *Controller) publish(eventType model.EventType, snapshot model.Snapshot, lines int) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		SessionID: snapshot.SessionID,
		Snapshot:  snapshot,
		Lines:     lines,
	})
}
