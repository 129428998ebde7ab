package game

import (
	"strings"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

func (e *Engine) indexOf(id model.TaskID) int {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) focusSlots() int {
	if e.balance.FocusSlots <= 0 {
		return model.MaxFocused
	}
	return e.balance.FocusSlots
}

func (e *Engine) newTask(title string, focused bool) model.Task {
	return model.Task{
		ID:        model.TaskID(e.newID()),
		Title:     title,
		Focused:   focused,
		CreatedAt: e.now(),
	}
}

func (e *Engine) appendTask(title string, wantFocus bool) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, false
	}
	t := e.newTask(title, wantFocus && e.FocusedCount() < e.focusSlots())
	e.tasks = append(e.tasks, t)
	return t, true
}

// AddTask creates a Backlog task. Blank titles are refused.
func (e *Engine) AddTask(title string) (model.Task, bool) {
	t, ok := e.appendTask(title, false)
	if !ok {
		return model.Task{}, false
	}
	e.commit(e.event(EventTaskAdded, &t))
	return t, true
}

// AddTaskDirect creates a task straight into a focus slot when one is
// free, otherwise into the Backlog.
func (e *Engine) AddTaskDirect(title string) (model.Task, bool) {
	t, ok := e.appendTask(title, true)
	if !ok {
		return model.Task{}, false
	}
	e.commit(e.event(EventTaskAdded, &t))
	return t, true
}

// AddTaskAuto follows the directAddDefault UI setting.
func (e *Engine) AddTaskAuto(title string) (model.Task, bool) {
	if e.ui.DirectAddDefault {
		return e.AddTaskDirect(title)
	}
	return e.AddTask(title)
}

// Breakthrough records something the user has been putting off as a
// Backlog task and prompts the navigator to push them.
func (e *Engine) Breakthrough(title string) (model.Task, bool) {
	t, ok := e.appendTask(title, false)
	if !ok {
		return model.Task{}, false
	}
	e.interact(model.ContextBreakthrough, model.MoodEntertained, t.Title)
	e.commit(e.event(EventBreakthrough, &t))
	return t, true
}

// FocusTask moves a Backlog task into a free focus slot. It refuses
// when all slots are taken or id is not a Backlog task.
func (e *Engine) FocusTask(id model.TaskID) bool {
	i := e.indexOf(id)
	if i < 0 || !e.tasks[i].InBacklog() {
		return false
	}
	if e.FocusedCount() >= e.focusSlots() {
		return false
	}
	e.tasks[i].Focused = true
	e.commit(e.event(EventTaskFocused, &e.tasks[i]))
	return true
}

// UnfocusTask returns a Focused task to the Backlog.
func (e *Engine) UnfocusTask(id model.TaskID) bool {
	i := e.indexOf(id)
	if i < 0 || !e.tasks[i].IsFocused() {
		return false
	}
	e.tasks[i].Focused = false
	e.commit(e.event(EventTaskUnfocused, &e.tasks[i]))
	return true
}

// DeleteTask removes the task from whichever set holds it, completed
// tasks included, and signals a failure to the navigator.
func (e *Engine) DeleteTask(id model.TaskID) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	removed := e.tasks[i]
	e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
	e.interact(model.ContextFailure, model.MoodEntertained, removed.Title)
	e.commit(e.event(EventTaskDeleted, &removed))
	return true
}

// ReorderTask moves movedID to targetID's position. Both tasks must be
// in the same logical set; crossing sets goes through focus/unfocus.
func (e *Engine) ReorderTask(movedID, targetID model.TaskID) bool {
	from, to := e.indexOf(movedID), e.indexOf(targetID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	if e.tasks[from].Set() != e.tasks[to].Set() {
		return false
	}
	moved := e.tasks[from]
	e.tasks = append(e.tasks[:from], e.tasks[from+1:]...)
	e.tasks = append(e.tasks[:to], append([]model.Task{moved}, e.tasks[to:]...)...)
	e.commit(e.event(EventTaskReordered, &moved))
	return true
}
