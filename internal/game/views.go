package game

import (
	"slices"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

func (e *Engine) filter(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(e.tasks))
	for _, t := range e.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func (e *Engine) Tasks() []model.Task {
	return e.filter(func(model.Task) bool { return true })
}

func (e *Engine) Task(id model.TaskID) (model.Task, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return cloneTask(e.tasks[i]), true
}

func (e *Engine) Backlog() []model.Task {
	return e.filter(model.Task.InBacklog)
}

func (e *Engine) Focused() []model.Task {
	return e.filter(model.Task.IsFocused)
}

func (e *Engine) Completed() []model.Task {
	return e.filter(func(t model.Task) bool { return t.Completed })
}

// CompletedOn lists tasks completed on a calendar date, for the
// "completed today" panel.
func (e *Engine) CompletedOn(date string) []model.Task {
	return e.filter(func(t model.Task) bool { return t.CompletedOn(date, e.loc) })
}

func (e *Engine) FocusedCount() int {
	n := 0
	for _, t := range e.tasks {
		if t.IsFocused() {
			n++
		}
	}
	return n
}

func (e *Engine) Today() string { return e.today() }

func (e *Engine) GameState() model.GameState { return e.state.Clone() }

func (e *Engine) BlackHole() []model.BlackHoleItem {
	return append([]model.BlackHoleItem{}, e.blackHole...)
}

func (e *Engine) RewardHistory() []model.RewardHistoryItem {
	return append([]model.RewardHistoryItem{}, e.history...)
}

func (e *Engine) NavigatorMode() model.NavigatorMode { return e.navigator }

func (e *Engine) UISettings() model.UISettings { return e.ui }

func (e *Engine) LastReward() (model.Reward, bool) {
	if e.lastReward == nil {
		return model.Reward{}, false
	}
	return *e.lastReward, true
}

func (e *Engine) LastInteraction() (model.Interaction, bool) {
	if e.lastInteraction == nil {
		return model.Interaction{}, false
	}
	return *e.lastInteraction, true
}

// RecentCompletions returns up to n completions from today, newest
// first. n <= 0 returns all of them.
func (e *Engine) RecentCompletions(n int) []model.Completion {
	today := e.today()
	out := []model.Completion{}
	for i := len(e.tasks) - 1; i >= 0; i-- {
		t := e.tasks[i]
		if !t.CompletedOn(today, e.loc) {
			continue
		}
		out = append(out, model.Completion{Title: t.Title, CompletedAt: *t.CompletedAt})
	}
	slices.SortStableFunc(out, func(a, b model.Completion) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
