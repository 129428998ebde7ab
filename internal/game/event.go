package game

import (
	"time"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

type EventKind string

const (
	EventTaskAdded       EventKind = "task_added"
	EventTaskFocused     EventKind = "task_focused"
	EventTaskUnfocused   EventKind = "task_unfocused"
	EventTaskCompleted   EventKind = "task_completed"
	EventTaskDeleted     EventKind = "task_deleted"
	EventTaskReordered   EventKind = "task_reordered"
	EventBreakthrough    EventKind = "breakthrough"
	EventDayRollover     EventKind = "day_rollover"
	EventRebirth         EventKind = "rebirth"
	EventBlackHoleAdded  EventKind = "black_hole_added"
	EventBlackHoleChange EventKind = "black_hole_changed"
	EventBlackHoleTask   EventKind = "black_hole_converted"
	EventSettingsChanged EventKind = "settings_changed"
)

// Event describes one applied mutation. Reward is set only for
// completions.
type Event struct {
	Kind      EventKind
	At        time.Time
	TaskID    model.TaskID
	TaskTitle string
	Reward    *model.Reward
	State     model.GameState
}

func (e *Engine) event(kind EventKind, t *model.Task) Event {
	ev := Event{Kind: kind, At: e.now(), State: e.state.Clone()}
	if t != nil {
		ev.TaskID = t.ID
		ev.TaskTitle = t.Title
	}
	return ev
}
