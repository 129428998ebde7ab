package notify

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Yoshiyuki1026/smtd/internal/navigator"
)

var (
	ErrUnauthorized   = errors.New("notify: unauthorized")
	ErrInvalidContext = errors.New("notify: invalid context")
)

// Handler serves GET /api/slack/notify?context=morning|midday|evening
// for an external scheduler.
type Handler struct {
	n      *Notifier
	secret string
}

// NewHandler checks requests against secret. An empty secret disables
// the check for local development.
func NewHandler(n *Notifier, secret string) *Handler {
	return &Handler{n: n, secret: secret}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func (h *Handler) authorize(r *http.Request) error {
	if h.secret == "" {
		return nil
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func parseContext(r *http.Request) (navigator.Slot, error) {
	slot, err := navigator.ParseSlot(r.URL.Query().Get("context"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}
	return slot, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		writeErr(w, 401, "Unauthorized")
		return
	}
	slot, err := parseContext(r)
	if err != nil {
		writeErr(w, 400, "Invalid context")
		return
	}
	writeJSON(w, 200, h.n.Notify(r.Context(), slot))
}
