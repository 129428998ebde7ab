// Package host owns the engine for the lifetime of the process and
// writes every change through to the store.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/model"
	"github.com/Yoshiyuki1026/smtd/internal/store"
	"github.com/Yoshiyuki1026/smtd/internal/telemetry"
)

// DefaultKey is the single record the state document lives under.
const DefaultKey = "smtd-storage"

// Host serialises access to one engine.
type Host struct {
	mu     sync.Mutex
	eng    *game.Engine
	store  store.Store
	key    string
	logger *slog.Logger
	rec    *telemetry.Recorder

	dirty    *model.Snapshot
	rollover game.RolloverResult
}

type Option func(*options)

type options struct {
	engine []game.Option
	rec    *telemetry.Recorder
}

// WithEngineOptions passes options through to the engine.
func WithEngineOptions(opts ...game.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

func WithRecorder(rec *telemetry.Recorder) Option {
	return func(o *options) { o.rec = rec }
}

// LoadSnapshot reads and decodes the state document. A missing key
// reports found=false with no error.
func LoadSnapshot(ctx context.Context, st store.Store, key string) (model.Snapshot, bool, error) {
	raw, err := st.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, fmt.Errorf("load %s: %w", key, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return snap, true, nil
}

// SaveSnapshot encodes and writes the state document.
func SaveSnapshot(ctx context.Context, st store.Store, key string, snap model.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.Put(ctx, key, raw)
}

// Open restores the engine from the store, or starts fresh when the key
// is absent, then runs the startup date check and saves.
func Open(ctx context.Context, st store.Store, key string, logger *slog.Logger, opts ...Option) (*Host, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h := &Host{store: st, key: key, logger: logger, rec: o.rec}
	engOpts := append([]game.Option{
		game.WithObserver(h.onChange),
		game.WithEvents(h.rec.GameEvent),
	}, o.engine...)

	snap, found, err := LoadSnapshot(ctx, st, key)
	if err != nil {
		return nil, err
	}
	if found {
		h.eng = game.Restore(snap, engOpts...)
	} else {
		h.eng = game.New(engOpts...)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	res := h.eng.CheckDateChange()
	logger.Info("state_opened",
		slog.Bool("restored", found),
		slog.String("today", res.To),
		slog.Bool("rolled_over", res.RolledOver),
		slog.Int("streak", res.Streak),
	)
	if err := SaveSnapshot(ctx, st, key, h.eng.Snapshot()); err != nil {
		return nil, err
	}
	h.dirty = nil
	return h, nil
}

func (h *Host) onChange(snap model.Snapshot) { h.dirty = &snap }

// flushLocked writes the latest snapshot. A failed write is logged and
// counted; memory stays authoritative.
func (h *Host) flushLocked(ctx context.Context) {
	if h.dirty == nil {
		return
	}
	snap := *h.dirty
	h.dirty = nil
	if err := SaveSnapshot(ctx, h.store, h.key, snap); err != nil {
		h.logger.Error("persist_failed", slog.String("key", h.key), slog.Any("error", err))
		h.rec.PersistFailed(err)
	}
}

// Do runs the date check, then fn against the engine, and persists
// whatever either changed. Every mutation sees the current local day
// even when the client never asked for a rollover.
func (h *Host) Do(ctx context.Context, fn func(e *game.Engine)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rollover = h.eng.CheckDateChange()
	fn(h.eng)
	h.flushLocked(ctx)
}

// View runs a read-only fn against the engine.
func (h *Host) View(fn func(e *game.Engine)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.eng)
}

func (h *Host) NavigatorMode() model.NavigatorMode {
	var m model.NavigatorMode
	h.View(func(e *game.Engine) { m = e.NavigatorMode() })
	return m
}

func (h *Host) RecentCompletions(n int) []model.Completion {
	var out []model.Completion
	h.View(func(e *game.Engine) { out = e.RecentCompletions(n) })
	return out
}

// State is what GET /api/state returns.
type State struct {
	model.Snapshot
	FocusedCount    int                `json:"focusedCount"`
	Today           string             `json:"today"`
	LastReward      *model.Reward      `json:"lastReward,omitempty"`
	LastInteraction *model.Interaction `json:"lastInteraction,omitempty"`
}

func stateOf(e *game.Engine) State {
	s := State{
		Snapshot:     e.Snapshot(),
		FocusedCount: e.FocusedCount(),
		Today:        e.Today(),
	}
	if r, ok := e.LastReward(); ok {
		s.LastReward = &r
	}
	if in, ok := e.LastInteraction(); ok {
		s.LastInteraction = &in
	}
	return s
}

func (h *Host) State() State {
	var s State
	h.View(func(e *game.Engine) { s = stateOf(e) })
	return s
}

// Ping checks that the store answers.
func (h *Host) Ping(ctx context.Context) error {
	_, err := h.store.Get(ctx, h.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
