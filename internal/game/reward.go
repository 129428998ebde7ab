package game

import (
	"math"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

// Completion is the result of CompleteTask.
type Completion struct {
	Task   model.Task
	Reward model.Reward
}

// nextCombo continues the combo while the previous completion is inside
// the combo window and restarts at 1 otherwise.
func (e *Engine) nextCombo() int {
	last := e.state.LastCompletedAt
	if last == nil {
		return 1
	}
	if e.now().Sub(*last) >= e.balance.ComboWindow {
		return 1
	}
	return min(e.state.Combo+1, e.balance.ComboCeiling)
}

func (e *Engine) points(combo int, strike bool) int {
	mult := 1.0
	if strike {
		mult = e.balance.StrikeMultiplier
	}
	return int(math.Floor(float64(e.balance.BasePoints) * float64(combo) * mult))
}

func (e *Engine) historyLimit() int {
	if e.balance.HistoryLimit <= 0 {
		return model.RewardHistoryLimit
	}
	return e.balance.HistoryLimit
}

// CompleteTask completes a task and pays out the reward. It is a no-op
// for unknown or already completed tasks.
func (e *Engine) CompleteTask(id model.TaskID) (Completion, bool) {
	i := e.indexOf(id)
	if i < 0 || e.tasks[i].Completed {
		return Completion{}, false
	}

	now := e.now()
	strike := !e.state.TodayStrikeAchieved
	combo := e.nextCombo()
	points := e.points(combo, strike)
	rare := e.rng.Float64() < e.balance.RareChance

	t := &e.tasks[i]
	t.Completed = true
	t.Focused = false
	doneAt := now
	t.CompletedAt = &doneAt

	lastAt := now
	e.state.CompletedToday++
	e.state.TotalStones++
	e.state.Combo = combo
	e.state.LastCompletedAt = &lastAt
	if strike {
		e.state.Streak++
		e.state.LastStrikeDate = e.today()
		e.state.TodayStrikeAchieved = true
	}

	e.history = append([]model.RewardHistoryItem{{
		Points:      points,
		Combo:       combo,
		TaskTitle:   t.Title,
		CompletedAt: now,
	}}, e.history...)
	if limit := e.historyLimit(); len(e.history) > limit {
		e.history = e.history[:limit]
	}

	reward := model.Reward{
		Points:        points,
		Combo:         combo,
		IsRare:        rare,
		IsDailyStrike: strike,
	}
	e.lastReward = &reward

	switch {
	case strike:
		e.interact(model.ContextDailyStrike, model.MoodStandard, t.Title)
	case rare:
		e.interact(model.ContextRareSuccess, model.MoodStandard, t.Title)
	default:
		e.interact(model.ContextSuccess, model.MoodStandard, t.Title)
	}

	done := cloneTask(*t)
	ev := e.event(EventTaskCompleted, &done)
	ev.Reward = &reward
	e.commit(ev)
	return Completion{Task: done, Reward: reward}, true
}

// ClearReward drops the transient reward signal once it has been shown.
func (e *Engine) ClearReward() bool {
	if e.lastReward == nil {
		return false
	}
	e.lastReward = nil
	return true
}
