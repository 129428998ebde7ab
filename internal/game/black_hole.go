package game

import (
	"strings"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

func (e *Engine) itemIndex(id model.BlackHoleID) int {
	for i := range e.blackHole {
		if e.blackHole[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem drops a note into the Black Hole, newest first.
func (e *Engine) AddItem(content string) (model.BlackHoleItem, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.BlackHoleItem{}, false
	}
	it := model.BlackHoleItem{
		ID:        model.BlackHoleID(e.newID()),
		Content:   content,
		CreatedAt: e.now(),
	}
	e.blackHole = append([]model.BlackHoleItem{it}, e.blackHole...)
	e.commit(e.event(EventBlackHoleAdded, nil))
	return it, true
}

func (e *Engine) setArchived(id model.BlackHoleID, archived bool) bool {
	i := e.itemIndex(id)
	if i < 0 || e.blackHole[i].Archived == archived {
		return false
	}
	e.blackHole[i].Archived = archived
	e.commit(e.event(EventBlackHoleChange, nil))
	return true
}

func (e *Engine) ArchiveItem(id model.BlackHoleID) bool { return e.setArchived(id, true) }

func (e *Engine) UnarchiveItem(id model.BlackHoleID) bool { return e.setArchived(id, false) }

func (e *Engine) DeleteItem(id model.BlackHoleID) bool {
	i := e.itemIndex(id)
	if i < 0 {
		return false
	}
	e.blackHole = append(e.blackHole[:i], e.blackHole[i+1:]...)
	e.commit(e.event(EventBlackHoleChange, nil))
	return true
}

// ConvertToTask moves an item out of the Black Hole into the Backlog in
// one step.
func (e *Engine) ConvertToTask(id model.BlackHoleID) (model.Task, bool) {
	i := e.itemIndex(id)
	if i < 0 {
		return model.Task{}, false
	}
	title := strings.TrimSpace(e.blackHole[i].Content)
	if title == "" {
		return model.Task{}, false
	}
	e.blackHole = append(e.blackHole[:i], e.blackHole[i+1:]...)
	t := e.newTask(title, false)
	e.tasks = append(e.tasks, t)
	e.commit(e.event(EventBlackHoleTask, &t))
	return t, true
}
