package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/model"
)

// Engine is the task/game state machine. It is not safe for concurrent
// use; the owner serialises calls.
type Engine struct {
	tasks     []model.Task
	state     model.GameState
	blackHole []model.BlackHoleItem
	history   []model.RewardHistoryItem
	navigator model.NavigatorMode
	ui        model.UISettings

	lastReward      *model.Reward
	lastInteraction *model.Interaction
	seq             uint64

	clock   Clock
	rng     Rand
	loc     *time.Location
	balance config.Balance
	newID   func() string

	observers []func(model.Snapshot)
	sinks     []func(Event)
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithLocation sets the zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithBalance(b config.Balance) Option {
	return func(e *Engine) { e.balance = b }
}

// WithIDs replaces the id generator (uuid by default).
func WithIDs(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithObserver registers a hook that receives the full snapshot after
// every operation that changed state. It is never called for no-ops.
func WithObserver(fn func(model.Snapshot)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// WithEvents registers a hook for domain events.
func WithEvents(fn func(Event)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.sinks = append(e.sinks, fn)
		}
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		clock:     RealClock{},
		rng:       NewRand(0),
		loc:       time.Local,
		balance:   config.Default(),
		newID:     uuid.NewString,
		navigator: model.NavigatorA,
		tasks:     []model.Task{},
		blackHole: []model.BlackHoleItem{},
		history:   []model.RewardHistoryItem{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New returns an engine with empty collections whose counters apply to
// today.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.state = model.NewGameState(e.today())
	return e
}

// Restore rebuilds an engine from a persisted snapshot. The snapshot is
// the sole initialization input; nothing is recomputed.
func Restore(snap model.Snapshot, opts ...Option) *Engine {
	e := newEngine(opts)
	snap.Normalize()
	snap = cloneSnapshot(snap)
	e.tasks = snap.Tasks
	e.state = snap.GameState
	e.blackHole = snap.BlackHole
	e.history = snap.RewardHistory
	e.navigator = snap.NavigatorMode
	e.ui = snap.UISettings
	if e.state.TodayDate == "" {
		e.state.TodayDate = e.today()
	}
	return e
}

// Snapshot returns a deep copy of the persisted state.
func (e *Engine) Snapshot() model.Snapshot {
	return cloneSnapshot(model.Snapshot{
		Tasks:         e.tasks,
		GameState:     e.state,
		BlackHole:     e.blackHole,
		NavigatorMode: e.navigator,
		UISettings:    e.ui,
		RewardHistory: e.history,
	})
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Balance() config.Balance { return e.balance }

func (e *Engine) now() time.Time { return e.clock.Now() }

func (e *Engine) today() string { return calendarDate(e.now(), e.loc) }

// commit notifies observers and event sinks after a state change.
func (e *Engine) commit(events ...Event) {
	if len(e.observers) > 0 {
		snap := e.Snapshot()
		for _, fn := range e.observers {
			fn(snap)
		}
	}
	for _, ev := range events {
		for _, fn := range e.sinks {
			fn(ev)
		}
	}
}

func (e *Engine) interact(ctx model.InteractionContext, mood model.Mood, title string) {
	e.seq++
	e.lastInteraction = &model.Interaction{
		Context:   ctx,
		Mood:      mood,
		TaskTitle: title,
		Seq:       e.seq,
	}
}

func cloneSnapshot(s model.Snapshot) model.Snapshot {
	out := model.Snapshot{
		Tasks:         make([]model.Task, len(s.Tasks)),
		GameState:     s.GameState.Clone(),
		BlackHole:     make([]model.BlackHoleItem, len(s.BlackHole)),
		NavigatorMode: s.NavigatorMode,
		UISettings:    s.UISettings,
		RewardHistory: make([]model.RewardHistoryItem, len(s.RewardHistory)),
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = cloneTask(t)
	}
	copy(out.BlackHole, s.BlackHole)
	copy(out.RewardHistory, s.RewardHistory)
	return out
}

func cloneTask(t model.Task) model.Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
