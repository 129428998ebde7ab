package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

func TestCheckDateChange_SameDayIsNoop(t *testing.T) {
	e, clk, _ := newEngineForTest(t)
	clk.Set(time.Date(2026, 1, 1, 23, 59, 0, 0, jst))

	res := e.CheckDateChange()
	assert.False(t, res.RolledOver)
	_, ok := e.LastInteraction()
	assert.False(t, ok)
}

func TestCheckDateChange_NextDayKeepsStreak(t *testing.T) {
	e, clk, _ := newEngineForTest(t)

	a := addFocused(t, e, "a")
	b := addFocused(t, e, "b")
	_, _ = e.CompleteTask(a.ID)

	clk.Set(time.Date(2026, 1, 2, 7, 0, 0, 0, jst))
	res := e.CheckDateChange()
	assert.True(t, res.RolledOver)
	assert.True(t, res.StreakKept)
	assert.Equal(t, "2026-01-01", res.From)
	assert.Equal(t, "2026-01-02", res.To)

	gs := e.GameState()
	assert.Equal(t, 0, gs.CompletedToday)
	assert.Equal(t, 0, gs.Combo)
	assert.Nil(t, gs.LastCompletedAt)
	assert.False(t, gs.TodayStrikeAchieved)
	assert.Equal(t, 1, gs.Streak)
	assert.Equal(t, 1, gs.TotalStones)
	assert.Len(t, e.Tasks(), 2)
	assert.Len(t, e.RewardHistory(), 1)

	in, _ := e.LastInteraction()
	assert.Equal(t, model.ContextIgnition, in.Context)

	c, ok := e.CompleteTask(b.ID)
	require.True(t, ok)
	assert.True(t, c.Reward.IsDailyStrike)
	assert.Equal(t, 2, e.GameState().Streak)
}

func TestCheckDateChange_GapBreaksStreak(t *testing.T) {
	clk := NewFakeClock(time.Date(2026, 1, 3, 8, 0, 0, 0, jst))
	snap := model.Snapshot{GameState: model.GameState{
		TodayDate:           "2026-01-01",
		TotalStones:         9,
		Streak:              4,
		LastStrikeDate:      "2026-01-01",
		TodayStrikeAchieved: true,
		CompletedToday:      3,
	}}
	e := Restore(snap, WithClock(clk), WithLocation(jst))

	res := e.CheckDateChange()
	assert.True(t, res.RolledOver)
	assert.False(t, res.StreakKept)

	gs := e.GameState()
	assert.Equal(t, 0, gs.Streak)
	assert.Equal(t, 9, gs.TotalStones)
	assert.Equal(t, "2026-01-03", gs.TodayDate)
	assert.Equal(t, 0, gs.CompletedToday)
}

func TestCheckDateChange_UsesLocalCalendar(t *testing.T) {
	e, clk, _ := newEngineForTest(t)

	// 23:30 UTC on Jan 1 is already Jan 2 in Tokyo.
	clk.Set(time.Date(2026, 1, 1, 23, 30, 0, 0, time.UTC))
	res := e.CheckDateChange()
	assert.True(t, res.RolledOver)
	assert.Equal(t, "2026-01-02", e.GameState().TodayDate)
}

func TestCheckDateChange_MonthBoundary(t *testing.T) {
	clk := NewFakeClock(time.Date(2026, 3, 1, 8, 0, 0, 0, jst))
	e := Restore(model.Snapshot{GameState: model.GameState{
		TodayDate:      "2026-02-28",
		Streak:         2,
		LastStrikeDate: "2026-02-28",
	}}, WithClock(clk), WithLocation(jst))

	res := e.CheckDateChange()
	assert.True(t, res.StreakKept)
	assert.Equal(t, 2, e.GameState().Streak)
}

func TestRebirth(t *testing.T) {
	e, _, _ := newEngineForTest(t)

	a := addFocused(t, e, "a")
	_, _ = e.AddTask("b")
	_, _ = e.CompleteTask(a.ID)
	kept, _ := e.AddItem("keep me")
	_, _ = e.AddItem("drop me")
	require.True(t, e.ArchiveItem(kept.ID))
	stones := e.GameState().TotalStones

	e.Rebirth()

	assert.Empty(t, e.Tasks())
	assert.Empty(t, e.RewardHistory())
	gs := e.GameState()
	assert.Equal(t, stones, gs.TotalStones)
	assert.Equal(t, 1, gs.RebirthCount)
	assert.Equal(t, 0, gs.Streak)
	assert.Equal(t, 0, gs.Combo)
	assert.Empty(t, gs.LastStrikeDate)
	assert.False(t, gs.TodayStrikeAchieved)

	bh := e.BlackHole()
	require.Len(t, bh, 1)
	assert.Equal(t, kept.ID, bh[0].ID)

	_, ok := e.LastReward()
	assert.False(t, ok)
	in, _ := e.LastInteraction()
	assert.Equal(t, model.ContextIgnition, in.Context)
}
