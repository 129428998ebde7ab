package model

import (
	"time"
)

type TaskID string

// MaxFocused is the number of focus slots.
const MaxFocused = 3

// TaskSet is the logical set a task belongs to.
type TaskSet string

const (
	SetBacklog   TaskSet = "backlog"
	SetFocused   TaskSet = "focused"
	SetCompleted TaskSet = "completed"
)

type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	Focused     bool       `json:"focused"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Set derives the logical set from the completed/focused flags.
// Completed wins over focused so a corrupted record still lands in
// exactly one set.
func (t Task) Set() TaskSet {
	switch {
	case t.Completed:
		return SetCompleted
	case t.Focused:
		return SetFocused
	default:
		return SetBacklog
	}
}

func (t Task) InBacklog() bool { return t.Set() == SetBacklog }
func (t Task) IsFocused() bool { return t.Set() == SetFocused }

// CompletedOn reports whether the task was completed on the given
// calendar date (YYYY-MM-DD) in loc.
func (t Task) CompletedOn(date string, loc *time.Location) bool {
	if !t.Completed || t.CompletedAt == nil {
		return false
	}
	if loc == nil {
		loc = time.Local
	}
	return t.CompletedAt.In(loc).Format(DateLayout) == date
}
