package game

import (
	"github.com/Yoshiyuki1026/smtd/internal/model"
)

// RolloverResult reports what CheckDateChange did.
type RolloverResult struct {
	From       string `json:"from"`
	To         string `json:"to"`
	StreakKept bool   `json:"streak_kept"`
	Streak     int    `json:"streak"`
	RolledOver bool   `json:"rolled_over"`
}

// CheckDateChange resets the daily counters when the local calendar
// date differs from the stored one. It is pull-based: the host calls it
// on startup and whenever the client regains focus.
//
// The streak survives only if the last daily strike was yesterday, so
// any gap of two or more days breaks it. Tasks, totals and history are
// left alone.
func (e *Engine) CheckDateChange() RolloverResult {
	today := e.today()
	res := RolloverResult{From: e.state.TodayDate, To: today, Streak: e.state.Streak}
	if e.state.TodayDate == today {
		return res
	}

	res.RolledOver = true
	res.StreakKept = e.state.LastStrikeDate != "" && e.state.LastStrikeDate == previousDate(today)
	if !res.StreakKept {
		e.state.Streak = 0
	}
	res.Streak = e.state.Streak

	e.state.CompletedToday = 0
	e.state.Combo = 0
	e.state.LastCompletedAt = nil
	e.state.TodayStrikeAchieved = false
	e.state.TodayDate = today

	e.interact(model.ContextIgnition, model.MoodStandard, "")
	e.commit(e.event(EventDayRollover, nil))
	return res
}

// Rebirth is the prestige reset. It discards every task and the daily
// and streak counters, keeps TotalStones, bumps RebirthCount and keeps
// only archived Black Hole items. The reward history goes with the
// tasks.
func (e *Engine) Rebirth() {
	e.tasks = []model.Task{}

	e.state.CompletedToday = 0
	e.state.Combo = 0
	e.state.LastCompletedAt = nil
	e.state.TodayDate = e.today()
	e.state.Streak = 0
	e.state.LastStrikeDate = ""
	e.state.TodayStrikeAchieved = false
	e.state.RebirthCount++

	kept := make([]model.BlackHoleItem, 0, len(e.blackHole))
	for _, it := range e.blackHole {
		if it.Archived {
			kept = append(kept, it)
		}
	}
	e.blackHole = kept
	e.history = []model.RewardHistoryItem{}
	e.lastReward = nil

	e.interact(model.ContextIgnition, model.MoodStandard, "")
	e.commit(e.event(EventRebirth, nil))
}
