package host

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/model"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// decodeJSON accepts an empty body as the zero value.
func decodeJSON(r *http.Request, out any) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Result is the body of every mutating endpoint. Changed is false when
// the operation was a no-op; State is always current.
type Result struct {
	Changed  bool                 `json:"changed"`
	Task     *model.Task          `json:"task,omitempty"`
	Item     *model.BlackHoleItem `json:"item,omitempty"`
	Reward   *model.Reward        `json:"reward,omitempty"`
	Rollover *game.RolloverResult `json:"rollover,omitempty"`
	State    State                `json:"state"`
}

// Routes registers the engine API on mux.
func (h *Host) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.getState)
	mux.HandleFunc("POST /api/session/focus", h.sessionFocus)

	mux.HandleFunc("POST /api/tasks", h.addTask)
	mux.HandleFunc("POST /api/tasks/{id}/{action}", h.taskAction)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)
	mux.HandleFunc("POST /api/breakthrough", h.breakthrough)

	mux.HandleFunc("POST /api/rebirth", h.rebirth)
	mux.HandleFunc("POST /api/reward/clear", h.clearReward)

	mux.HandleFunc("POST /api/blackhole", h.addItem)
	mux.HandleFunc("POST /api/blackhole/{id}/{action}", h.itemAction)
	mux.HandleFunc("DELETE /api/blackhole/{id}", h.deleteItem)

	mux.HandleFunc("PUT /api/settings", h.putSettings)
}

// mutate runs fn under the host lock and answers with the result.
func (h *Host) mutate(w http.ResponseWriter, r *http.Request, fn func(e *game.Engine, res *Result)) {
	var res Result
	h.Do(r.Context(), func(e *game.Engine) {
		fn(e, &res)
		res.State = stateOf(e)
	})
	writeJSON(w, 200, res)
}

func (h *Host) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, h.State())
}

func (h *Host) sessionFocus(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		ro := h.rollover
		res.Changed = ro.RolledOver
		res.Rollover = &ro
	})
}

type addTaskRequest struct {
	Title  string `json:"title"`
	Direct *bool  `json:"direct"`
}

func (h *Host) addTask(w http.ResponseWriter, r *http.Request) {
	var in addTaskRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		var t model.Task
		switch {
		case in.Direct == nil:
			t, res.Changed = e.AddTaskAuto(in.Title)
		case *in.Direct:
			t, res.Changed = e.AddTaskDirect(in.Title)
		default:
			t, res.Changed = e.AddTask(in.Title)
		}
		if res.Changed {
			res.Task = &t
		}
	})
}

type reorderRequest struct {
	TargetID model.TaskID `json:"targetId"`
}

func (h *Host) taskAction(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	action := r.PathValue("action")

	var target model.TaskID
	switch action {
	case "focus", "unfocus", "complete":
	case "reorder":
		var in reorderRequest
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		target = in.TargetID
	default:
		writeErr(w, 404, "not found")
		return
	}

	h.mutate(w, r, func(e *game.Engine, res *Result) {
		switch action {
		case "focus":
			res.Changed = e.FocusTask(id)
		case "unfocus":
			res.Changed = e.UnfocusTask(id)
		case "complete":
			var c game.Completion
			c, res.Changed = e.CompleteTask(id)
			if res.Changed {
				res.Task = &c.Task
				res.Reward = &c.Reward
			}
			return
		case "reorder":
			res.Changed = e.ReorderTask(id, target)
		}
		if t, ok := e.Task(id); ok {
			res.Task = &t
		}
	})
}

func (h *Host) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		res.Changed = e.DeleteTask(id)
	})
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *Host) breakthrough(w http.ResponseWriter, r *http.Request) {
	var in titleRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		t, ok := e.Breakthrough(in.Title)
		res.Changed = ok
		if ok {
			res.Task = &t
		}
	})
}

type rebirthRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Host) rebirth(w http.ResponseWriter, r *http.Request) {
	var in rebirthRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if !in.Confirm {
		writeErr(w, 400, "rebirth requires confirm")
		return
	}
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		e.Rebirth()
		res.Changed = true
	})
}

func (h *Host) clearReward(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		res.Changed = e.ClearReward()
	})
}

type contentRequest struct {
	Content string `json:"content"`
}

func (h *Host) addItem(w http.ResponseWriter, r *http.Request) {
	var in contentRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		it, ok := e.AddItem(in.Content)
		res.Changed = ok
		if ok {
			res.Item = &it
		}
	})
}

func (h *Host) itemAction(w http.ResponseWriter, r *http.Request) {
	id := model.BlackHoleID(r.PathValue("id"))
	action := r.PathValue("action")
	switch action {
	case "archive", "unarchive", "convert":
	default:
		writeErr(w, 404, "not found")
		return
	}

	h.mutate(w, r, func(e *game.Engine, res *Result) {
		switch action {
		case "archive":
			res.Changed = e.ArchiveItem(id)
		case "unarchive":
			res.Changed = e.UnarchiveItem(id)
		case "convert":
			t, ok := e.ConvertToTask(id)
			res.Changed = ok
			if ok {
				res.Task = &t
			}
		}
	})
}

func (h *Host) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := model.BlackHoleID(r.PathValue("id"))
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		res.Changed = e.DeleteItem(id)
	})
}

type settingsRequest struct {
	NavigatorMode    *model.NavigatorMode `json:"navigatorMode"`
	DirectAddDefault *bool                `json:"directAddDefault"`
}

func (h *Host) putSettings(w http.ResponseWriter, r *http.Request) {
	var in settingsRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	h.mutate(w, r, func(e *game.Engine, res *Result) {
		if in.NavigatorMode != nil && e.SetNavigatorMode(*in.NavigatorMode) {
			res.Changed = true
		}
		if in.DirectAddDefault != nil && e.SetDirectAddDefault(*in.DirectAddDefault) {
			res.Changed = true
		}
	})
}
