package navigator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

// StateSource supplies the defaults a client may leave out of a
// request.
type StateSource interface {
	NavigatorMode() model.NavigatorMode
	RecentCompletions(n int) []model.Completion
}

type Handler struct {
	svc   *Service
	state StateSource
}

func NewHandler(svc *Service, state StateSource) *Handler {
	return &Handler{svc: svc, state: state}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type speakResponse struct {
	Line      string                   `json:"line"`
	Source    Source                   `json:"source"`
	Navigator model.NavigatorMode      `json:"navigator"`
	Context   model.InteractionContext `json:"context"`
}

// Speak handles POST /api/navigator. An empty context asks for the
// startup greeting; an omitted navigator or completion list is taken
// from the current state.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if req.Navigator == "" && h.state != nil {
		req.Navigator = h.state.NavigatorMode()
	}
	if req.Navigator == "" {
		req.Navigator = model.NavigatorA
	}
	if req.Mode == "" {
		req.Mode = model.MoodStandard
	}
	if req.Context == "" {
		req.Context = ResolveContext(h.svc.now())
	}
	if req.RecentCompletions == nil && h.state != nil {
		req.RecentCompletions = h.state.RecentCompletions(0)
	}

	resp, err := h.svc.Speak(r.Context(), req)
	if errors.Is(err, ErrInvalidRequest) {
		writeErr(w, 400, "invalid mode or context")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, speakResponse{
		Line:      resp.Line,
		Source:    resp.Source,
		Navigator: req.Navigator,
		Context:   req.Context,
	})
}
