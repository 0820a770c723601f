package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/portfolio/internal/dependencies/mocks"
	"github.com/mcoot/portfolio/internal/model"
)

func newTestLoop(t *testing.T, onFrame FrameFunc) (*Loop, *mocks.MockClock) {
	t.Helper()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	gen := NewGenerator(rnd)
	session := NewSession("S1", "hash", gen, 0, clk.Now())
	game := New(session, gen, Options{Now: clk.Now})
	return NewLoop(game, clk, 0, onFrame), clk
}

func TestLoopDefaultInterval(t *testing.T) {
	loop, clk := newTestLoop(t, nil)
	loop.Start()
	defer loop.Stop()

	tickers := clk.Tickers()
	require.Len(t, tickers, 1)
	assert.Equal(t, time.Second/DefaultFrameRate, tickers[0].Interval)
}

func TestLoopStartStopIdempotent(t *testing.T) {
	loop, clk := newTestLoop(t, nil)
	assert.False(t, loop.Running())

	loop.Start()
	loop.Start()
	assert.True(t, loop.Running())
	assert.Len(t, clk.Tickers(), 1)

	loop.Stop()
	loop.Stop()
	assert.False(t, loop.Running())
	assert.True(t, clk.Tickers()[0].Stopped())
}

func TestLoopCanRestart(t *testing.T) {
	loop, clk := newTestLoop(t, nil)
	loop.Start()
	loop.Stop()
	loop.Start()
	defer loop.Stop()

	assert.True(t, loop.Running())
	assert.Len(t, clk.Tickers(), 2)
}

func TestLoopTickerDrivesFrames(t *testing.T) {
	frames := make(chan model.Snapshot, 10)
	loop, clk := newTestLoop(t, func(_ TickResult, snapshot model.Snapshot) {
		frames <- snapshot
	})
	changed, _, _ := loop.Apply(model.CommandResume)
	require.True(t, changed)

	loop.Start()
	defer loop.Stop()
	ticker := clk.Tickers()[0]

	require.True(t, ticker.Fire(clk.Now(), time.Second))
	require.True(t, ticker.Fire(clk.Now(), time.Second))

	first := <-frames
	second := <-frames
	assert.Equal(t, uint64(1), first.Frames)
	assert.Equal(t, uint64(2), second.Frames)
	assert.Equal(t, 2, second.DropTick)
}

func TestLoopFramesWhilePaused(t *testing.T) {
	var results []TickResult
	loop, _ := newTestLoop(t, func(result TickResult, _ model.Snapshot) {
		results = append(results, result)
	})

	loop.Tick()
	loop.Tick()

	// The callback still runs so renderers keep drawing
	require.Len(t, results, 2)
	assert.False(t, results[0].Advanced)
	assert.Equal(t, uint64(0), loop.Snapshot().Frames)
}

func TestLoopApplyReturnsSnapshot(t *testing.T) {
	loop, _ := newTestLoop(t, nil)

	changed, before, snapshot := loop.Apply(model.CommandClick)
	assert.True(t, changed)
	assert.Equal(t, model.GameStatePaused, before)
	assert.Equal(t, model.GameStateRunning, snapshot.State)

	changed, before, snapshot = loop.Apply(model.CommandMoveLeft)
	assert.True(t, changed)
	assert.Equal(t, model.GameStateRunning, before)
	assert.Equal(t, 2, snapshot.Current.Pos.X)
}

func TestLoopSessionIsCopy(t *testing.T) {
	loop, _ := newTestLoop(t, nil)

	copied := loop.Session()
	copied.Board.Set(0, 0, model.PieceZ)
	copied.Score = 500

	assert.Equal(t, 0, loop.Snapshot().Score)
	assert.Equal(t, 0, loop.Session().Board.FilledCount())
}

func TestLoopConcurrentCommandsAndTicks(t *testing.T) {
	loop, _ := newTestLoop(t, nil)
	loop.Apply(model.CommandResume)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				loop.Tick()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				loop.Apply(model.CommandRotate)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(200), loop.Snapshot().Frames)
}

func TestLoopPersistSkippedAfterClose(t *testing.T) {
	loop, _ := newTestLoop(t, nil)

	var saved []*model.Session
	save := func(s *model.Session) error {
		saved = append(saved, s)
		return nil
	}
	require.NoError(t, loop.Persist(save))
	require.Len(t, saved, 1)

	removed := false
	require.NoError(t, loop.Close(func() error {
		removed = true
		return nil
	}))
	assert.True(t, removed)
	assert.True(t, loop.Closed())

	require.NoError(t, loop.Persist(save))
	assert.Len(t, saved, 1)
}

func TestLoopCloseStopsTicker(t *testing.T) {
	loop, clk := newTestLoop(t, nil)
	loop.Start()

	require.NoError(t, loop.Close(nil))
	assert.False(t, loop.Running())
	assert.True(t, clk.Tickers()[0].Stopped())
}
