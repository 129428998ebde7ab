package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/model"
	"github.com/Yoshiyuki1026/smtd/internal/store"
	"github.com/Yoshiyuki1026/smtd/internal/telemetry"
)

var jst = time.FixedZone("JST", 9*60*60)

type countingStore struct {
	*store.Memory
	puts    int
	failPut bool
}

func (s *countingStore) Put(ctx context.Context, key string, value []byte) error {
	s.puts++
	if s.failPut {
		return errors.New("disk full")
	}
	return s.Memory.Put(ctx, key, value)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func newHostForTest(t *testing.T, st store.Store, clk *game.FakeClock, opts ...Option) *Host {
	t.Helper()
	base := []Option{WithEngineOptions(
		game.WithClock(clk),
		game.WithLocation(jst),
		game.WithRand(game.NewSequenceRand()),
		game.WithIDs(sequentialIDs()),
	)}
	h, err := Open(context.Background(), st, DefaultKey, nil, append(base, opts...)...)
	require.NoError(t, err)
	return h
}

func loadForTest(t *testing.T, st store.Store) model.Snapshot {
	t.Helper()
	snap, found, err := LoadSnapshot(context.Background(), st, DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	return snap
}

func TestOpen_FreshStateIsSaved(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))

	h := newHostForTest(t, st, clk)

	assert.Equal(t, 1, st.puts)
	snap := loadForTest(t, st)
	assert.Equal(t, "2026-01-01", snap.GameState.TodayDate)
	assert.NotNil(t, snap.Tasks)
	assert.Equal(t, "2026-01-01", h.State().Today)
}

func TestOpen_RestoresAndRollsOver(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	prev := model.Snapshot{
		Tasks: []model.Task{{ID: "a", Title: "carry over", CreatedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}},
		GameState: model.GameState{
			TodayDate:           "2026-01-01",
			TotalStones:         5,
			CompletedToday:      2,
			Streak:              3,
			LastStrikeDate:      "2026-01-01",
			TodayStrikeAchieved: true,
		},
		NavigatorMode: model.NavigatorB,
	}
	require.NoError(t, SaveSnapshot(context.Background(), st, DefaultKey, prev))

	clk := game.NewFakeClock(time.Date(2026, 1, 2, 8, 0, 0, 0, jst))
	h := newHostForTest(t, st, clk)

	s := h.State()
	assert.Equal(t, "2026-01-02", s.GameState.TodayDate)
	assert.Equal(t, 0, s.GameState.CompletedToday)
	assert.Equal(t, 3, s.GameState.Streak)
	assert.Equal(t, 5, s.GameState.TotalStones)
	assert.Equal(t, model.NavigatorB, s.NavigatorMode)
	require.Len(t, s.Tasks, 1)
	require.NotNil(t, s.LastInteraction)
	assert.Equal(t, model.ContextIgnition, s.LastInteraction.Context)

	assert.Equal(t, "2026-01-02", loadForTest(t, st).GameState.TodayDate)
}

func TestOpen_UntouchedDocumentIsStable(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	h := newHostForTest(t, st, clk)
	h.Do(context.Background(), func(e *game.Engine) {
		tk, _ := e.AddTaskDirect("a")
		e.CompleteTask(tk.ID)
		e.AddItem("later")
	})
	before, err := st.Get(context.Background(), DefaultKey)
	require.NoError(t, err)

	_ = newHostForTest(t, st, clk)
	after, err := st.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestOpen_CorruptDocument(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Put(context.Background(), DefaultKey, []byte("{not json")))

	_, err := Open(context.Background(), st, DefaultKey, nil)
	assert.Error(t, err)
}

func TestDo_WritesThroughOnlyOnChange(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))
	h := newHostForTest(t, st, clk)
	base := st.puts

	h.Do(context.Background(), func(e *game.Engine) { e.FocusTask("missing") })
	assert.Equal(t, base, st.puts)

	h.Do(context.Background(), func(e *game.Engine) { e.AddTask("Buy milk") })
	assert.Equal(t, base+1, st.puts)

	snap := loadForTest(t, st)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Buy milk", snap.Tasks[0].Title)
}

func TestDo_PersistFailureKeepsMemory(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))
	m := telemetry.NewMetrics(prometheus.NewRegistry())
	rec := telemetry.NewRecorder(telemetry.NewMemoryRepository(), m, nil)
	h := newHostForTest(t, st, clk, WithRecorder(rec))

	st.failPut = true
	h.Do(context.Background(), func(e *game.Engine) { e.AddTask("kept in memory") })

	assert.Len(t, h.State().Tasks, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("task_added")))
}

func TestState_JSONShape(t *testing.T) {
	st := store.NewMemory()
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))
	h := newHostForTest(t, st, clk)

	raw, err := json.Marshal(h.State())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, k := range []string{"tasks", "gameState", "blackHole", "navigatorMode", "uiSettings", "rewardHistory", "focusedCount", "today"} {
		assert.Contains(t, m, k)
	}
}

func TestRecentCompletions(t *testing.T) {
	st := store.NewMemory()
	clk := game.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, jst))
	h := newHostForTest(t, st, clk)

	h.Do(context.Background(), func(e *game.Engine) {
		tk, _ := e.AddTask("a")
		e.CompleteTask(tk.ID)
	})
	recent := h.RecentCompletions(5)
	require.Len(t, recent, 1)
	assert.Equal(t, "a", recent[0].Title)
	assert.Equal(t, model.NavigatorA, h.NavigatorMode())
	assert.NoError(t, h.Ping(context.Background()))
}

func TestDo_RollsOverBeforeMutating(t *testing.T) {
	st := store.NewMemory()
	prev := model.Snapshot{
		Tasks: []model.Task{
			{ID: "a", Title: "first", Focused: true},
			{ID: "b", Title: "second", Focused: true},
		},
		GameState: model.GameState{
			TodayDate:           "2026-01-01",
			Streak:              3,
			LastStrikeDate:      "2026-01-01",
			TodayStrikeAchieved: true,
		},
	}
	require.NoError(t, SaveSnapshot(context.Background(), st, DefaultKey, prev))

	clk := game.NewFakeClock(time.Date(2026, 1, 1, 23, 0, 0, 0, jst))
	h := newHostForTest(t, st, clk)

	// Two midnights pass with no session focus call in between.
	clk.Advance(26 * time.Hour)

	var first, second game.Completion
	h.Do(context.Background(), func(e *game.Engine) { first, _ = e.CompleteTask("a") })
	assert.True(t, first.Reward.IsDailyStrike)
	gs := h.State().GameState
	assert.Equal(t, "2026-01-03", gs.TodayDate)
	assert.Equal(t, 1, gs.Streak)
	assert.Equal(t, "2026-01-03", gs.LastStrikeDate)

	h.Do(context.Background(), func(e *game.Engine) { second, _ = e.CompleteTask("b") })
	assert.False(t, second.Reward.IsDailyStrike)
	assert.Equal(t, 1, h.State().GameState.Streak)
	assert.Equal(t, 1, loadForTest(t, st).GameState.Streak)
}
