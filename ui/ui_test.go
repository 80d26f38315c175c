package ui

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snake-engine/game"
	"snake-engine/game/types"
	"snake-engine/stats"
	"snake-engine/store"
)

type sequence struct {
	values []int
}

func (s *sequence) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lineConfig is a 1x5 strip; with food at columns 2 and 4 the snake scores 2 and then hits the wall
// on its fourth step.
func lineConfig() game.Config {
	return game.Config{
		Rows: 1, Columns: 5, CellSize: 1,
		Layout: game.Layout{
			Body:      []types.Cell{{Row: 0, Col: 1}, {Row: 0, Col: 0}},
			Direction: types.Right,
		},
	}
}

func lineSampler() *sequence {
	one := []int{0, 2, 0, 4, 0, 0}
	return &sequence{values: append(append([]int{}, one...), one...)}
}

func TestLayerTracksHandles(t *testing.T) {
	l := NewLayer()
	a := l.DrawCell(types.Cell{Row: 1, Col: 2}, types.SnakeColor)
	b := l.DrawCell(types.Cell{Row: 3, Col: 4}, types.FoodColor)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, l.Len())

	d, ok := l.Lookup(b)
	require.True(t, ok)
	assert.Equal(t, types.Cell{Row: 3, Col: 4}, d.Cell)
	assert.Equal(t, types.FoodColor, d.Color)

	l.EraseCell(a)
	l.EraseCell(a)
	l.EraseCell(types.Handle(999))
	assert.Equal(t, []Drawn{{Handle: b, Cell: types.Cell{Row: 3, Col: 4}, Color: types.FoodColor}}, l.Cells())
}

func TestLayerAtPrefersNewestHandle(t *testing.T) {
	l := NewLayer()
	c := types.Cell{Row: 2, Col: 3}
	_, ok := l.At(c)
	assert.False(t, ok)

	food := l.DrawCell(c, types.FoodColor)
	head := l.DrawCell(c, types.SnakeColor)
	d, ok := l.At(c)
	require.True(t, ok)
	assert.Equal(t, head, d.Handle)

	l.EraseCell(head)
	d, ok = l.At(c)
	require.True(t, ok)
	assert.Equal(t, food, d.Handle)
}

func TestLayerCellsInDrawingOrder(t *testing.T) {
	l := NewLayer()
	for col := 0; col < 10; col++ {
		l.DrawCell(types.Cell{Col: col}, types.SnakeColor)
	}
	got := l.Cells()
	require.Len(t, got, 10)
	for i, d := range got {
		assert.Equal(t, i, d.Cell.Col)
	}
}

func TestSessionPlaysAndRecords(t *testing.T) {
	layer := NewLayer()
	rec := stats.NewRecorder("")
	sess := NewSession(lineConfig(), layer, store.NewMemoryStore(0), rec, quietLogger(), game.WithSampler(lineSampler()))
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sess.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	assert.True(t, sess.Over())
	assert.NoError(t, sess.Tick())

	require.NoError(t, sess.Start())
	assert.False(t, sess.Over())
	assert.Equal(t, 3, layer.Len())

	for i := 0; i < 4; i++ {
		require.NoError(t, sess.Tick())
	}
	require.True(t, sess.Over())
	assert.Zero(t, layer.Len())

	hud := sess.HUD()
	assert.Equal(t, 2, hud.Score)
	assert.Equal(t, 2, hud.Best)
	assert.Equal(t, 1, hud.GamesPlayed)
	assert.InDelta(t, 2.0, hud.AvgScore, 1e-9)
	assert.Equal(t, 2, hud.TopScore)
	assert.Equal(t, time.Second, hud.AvgDuration)
	assert.True(t, hud.Over)

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, sess.Engine().ID(), records[0].GameID)
	assert.Equal(t, 2, records[0].Score)

	// Input between games is dropped.
	sess.Turn(types.Up)
	assert.NoError(t, sess.Tick())

	first := sess.Engine().ID()
	require.NoError(t, sess.Restart())
	assert.False(t, sess.Over())
	assert.NotEqual(t, first, sess.Engine().ID())
	assert.Equal(t, 3, layer.Len())
	assert.Equal(t, 0, sess.HUD().Score)
	assert.Equal(t, 2, sess.HUD().Best)
}

func TestSessionRestartIgnoredWhileRunning(t *testing.T) {
	sess := NewSession(lineConfig(), NewLayer(), store.NewMemoryStore(0), nil, quietLogger(), game.WithSampler(lineSampler()))
	require.NoError(t, sess.Start())
	id := sess.Engine().ID()

	require.NoError(t, sess.Restart())
	assert.Equal(t, id, sess.Engine().ID())
}

func TestSessionTurn(t *testing.T) {
	cfg := game.Config{
		Rows: 5, Columns: 5, CellSize: 1,
		Layout: game.Layout{Body: []types.Cell{{Row: 2, Col: 2}}, Direction: types.Right},
	}
	sess := NewSession(cfg, NewLayer(), store.NewMemoryStore(0), nil, quietLogger(), game.WithSampler(&sequence{values: []int{0, 0}}))
	require.NoError(t, sess.Start())

	sess.Turn(types.Down)
	require.NoError(t, sess.Tick())
	assert.Equal(t, []types.Cell{{Row: 3, Col: 2}}, sess.Engine().Body())
}

type unreadableStore struct{}

func (unreadableStore) Read() (int, error) { return 0, errors.New("connection refused") }
func (unreadableStore) Write(int) error    { return nil }

func TestSessionStartLeavesNothingDrawnWhenStoreFails(t *testing.T) {
	layer := NewLayer()
	sess := NewSession(lineConfig(), layer, unreadableStore{}, nil, quietLogger(), game.WithSampler(lineSampler()))

	err := sess.Start()
	assert.ErrorContains(t, err, "connection refused")
	assert.Zero(t, layer.Len())
	assert.True(t, sess.Over())
	assert.Nil(t, sess.Engine())
}

type failingStore struct{}

func (failingStore) Read() (int, error) { return 0, nil }
func (failingStore) Write(int) error    { return errors.New("disk full") }

func TestSessionStoreFailureStillRecords(t *testing.T) {
	rec := stats.NewRecorder("")
	sess := NewSession(lineConfig(), NewLayer(), failingStore{}, rec, quietLogger(), game.WithSampler(lineSampler()))
	require.NoError(t, sess.Start())

	var err error
	for i := 0; i < 4; i++ {
		err = sess.Tick()
	}
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, sess.Over())
	assert.Equal(t, 1, rec.GamesPlayed())
}

func TestSessionAutopilot(t *testing.T) {
	cfg := game.Config{
		Rows: 5, Columns: 5, CellSize: 1,
		Layout: game.Layout{Body: []types.Cell{{Row: 2, Col: 0}}, Direction: types.Right},
	}
	// Food at (0,0), then wherever the sequence runs out.
	sess := NewSession(cfg, NewLayer(), store.NewMemoryStore(0), nil, quietLogger(), game.WithSampler(&sequence{values: []int{0, 0, 4, 4}}))
	sess.SetAutopilot(true)
	require.NoError(t, sess.Start())
	assert.True(t, sess.HUD().Autopilot)

	// Manual turns are ignored while the autopilot steers.
	sess.Turn(types.Right)
	require.NoError(t, sess.Tick())
	require.NoError(t, sess.Tick())
	assert.Equal(t, 1, sess.Engine().Score())

	sess.ToggleAutopilot()
	assert.False(t, sess.HUD().Autopilot)
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 20)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestTerminalRendererDrawsAndErases(t *testing.T) {
	screen := newSimScreen(t)
	tr := NewTerminalRenderer(screen, 5, 5)

	h := tr.DrawCell(types.Cell{Row: 2, Col: 3}, types.SnakeColor)
	f := tr.DrawCell(types.Cell{Row: 0, Col: 0}, types.FoodColor)

	// Grid (r, c) sits at screen column 1+2c, row 1+r.
	assert.Equal(t, '█', runeAt(screen, 7, 3))
	assert.Equal(t, '█', runeAt(screen, 8, 3))
	assert.Equal(t, '●', runeAt(screen, 1, 1))

	tr.EraseCell(h)
	assert.Equal(t, ' ', runeAt(screen, 7, 3))
	assert.Equal(t, ' ', runeAt(screen, 8, 3))
	assert.Equal(t, '●', runeAt(screen, 1, 1))

	tr.EraseCell(h)
	tr.EraseCell(f)
	assert.Equal(t, ' ', runeAt(screen, 1, 1))
}

func TestTerminalKeepsHeadDrawnAfterEating(t *testing.T) {
	screen := newSimScreen(t)
	tr := NewTerminalRenderer(screen, 5, 5)
	cfg := game.Config{
		Rows: 5, Columns: 5, CellSize: 1,
		Layout: game.Layout{Body: []types.Cell{{Row: 2, Col: 2}, {Row: 2, Col: 1}}, Direction: types.Right},
	}
	sess := NewSession(cfg, tr, store.NewMemoryStore(0), nil, quietLogger(), game.WithSampler(&sequence{values: []int{2, 3, 0, 0}}))
	require.NoError(t, sess.Start())

	// Food at (2,3), screen column 7, row 3.
	assert.Equal(t, '●', runeAt(screen, 7, 3))

	require.NoError(t, sess.Tick())
	require.Equal(t, 1, sess.Engine().Score())

	for _, x := range []int{3, 5, 7} {
		assert.Equal(t, '█', runeAt(screen, x, 3), "column %d", x)
		assert.Equal(t, '█', runeAt(screen, x+1, 3), "column %d", x+1)
	}
	assert.Equal(t, '●', runeAt(screen, 1, 1), "new food at (0,0)")
}

func TestTerminalFrameAndStatus(t *testing.T) {
	screen := newSimScreen(t)
	tr := NewTerminalRenderer(screen, 3, 4)
	tr.DrawFrame(HUD{Score: 7, Best: 9, TopScore: 5, AvgDuration: 2 * time.Second, Over: true})

	assert.Equal(t, '┌', runeAt(screen, 0, 0))
	assert.Equal(t, '┐', runeAt(screen, 9, 0))
	assert.Equal(t, '┘', runeAt(screen, 9, 4))

	var line []rune
	for x := 0; x < 16; x++ {
		line = append(line, runeAt(screen, x, 5))
	}
	assert.Equal(t, "Score: 7  Best: ", string(line))

	line = line[:0]
	for x := 0; x < 18; x++ {
		line = append(line, runeAt(screen, x, 6))
	}
	assert.Equal(t, "Top: 5  Avg time: ", string(line))
	assert.Equal(t, '2', runeAt(screen, 18, 6))
	assert.Equal(t, 's', runeAt(screen, 19, 6))
}

func TestRunTerminalQuits(t *testing.T) {
	screen := newSimScreen(t)
	tr := NewTerminalRenderer(screen, 5, 5)
	cfg := game.Config{
		Rows: 5, Columns: 5, CellSize: 1,
		Layout: game.Layout{Body: []types.Cell{{Row: 2, Col: 0}}, Direction: types.Right},
	}
	sess := NewSession(cfg, tr, store.NewMemoryStore(0), nil, quietLogger(), game.WithSampler(&sequence{values: []int{4, 4}}))

	done := make(chan error, 1)
	go func() { done <- RunTerminal(tr, sess, time.Hour, quietLogger()) }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("terminal loop did not stop")
	}
}

func TestWindowKeysHaveFixedOrder(t *testing.T) {
	var dirs []types.Direction
	for _, k := range windowKeys {
		dirs = append(dirs, k.dir)
	}
	assert.Equal(t, []types.Direction{
		types.Up, types.Up, types.Down, types.Down, types.Left, types.Left, types.Right, types.Right,
	}, dirs)
	assert.ElementsMatch(t, types.Directions[:], []types.Direction{dirs[0], dirs[2], dirs[4], dirs[6]})
}
