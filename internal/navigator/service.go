// Package navigator produces the short in-character lines shown next
// to the task list and sent to Slack.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/model"
)

var (
	ErrInvalidRequest = errors.New("navigator: invalid mode or context")
	ErrNoGenerator    = errors.New("navigator: no generator configured")
)

type Source string

const (
	SourceGenerated Source = "generated"
	SourceCache     Source = "cache"
	SourceFallback  Source = "fallback"
	SourceError     Source = "error"
)

// Generator turns a system prompt and a user prompt into text.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Request struct {
	Navigator         model.NavigatorMode      `json:"navigator,omitempty"`
	Mode              model.Mood               `json:"mode"`
	Context           model.InteractionContext `json:"context"`
	TaskTitle         string                   `json:"taskTitle,omitempty"`
	RecentCompletions []model.Completion       `json:"recentCompletions,omitempty"`
}

// Validate fills the default navigator and checks mode and context.
func (r *Request) Validate() error {
	if r.Navigator == "" {
		r.Navigator = model.NavigatorA
	}
	if !r.Navigator.Valid() || !r.Mode.Valid() || !r.Context.Valid() {
		return fmt.Errorf("%w: navigator=%q mode=%q context=%q", ErrInvalidRequest, r.Navigator, r.Mode, r.Context)
	}
	return nil
}

type Response struct {
	Line   string `json:"line"`
	Source Source `json:"source"`
}

type cacheEntry struct {
	line string
	at   time.Time
}

type Service struct {
	gen     Generator
	clock   game.Clock
	loc     *time.Location
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
	pick    func(n int) int
	hooks   []func(Request, Response)

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type Option func(*Service)

// WithGenerator sets the text generator. Without one every request is
// answered from the fallback lines.
func WithGenerator(g Generator) Option { return func(s *Service) { s.gen = g } }

func WithClock(c game.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the zone used for time-of-day framing.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCacheTTL sets how long generated lines without a task title are
// reused. Zero disables the cache.
func WithCacheTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPicker replaces the random choice among fallback lines.
func WithPicker(fn func(n int) int) Option {
	return func(s *Service) {
		if fn != nil {
			s.pick = fn
		}
	}
}

// WithHook registers a callback for every answered request.
func WithHook(fn func(Request, Response)) Option {
	return func(s *Service) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		clock:   game.RealClock{},
		loc:     time.Local,
		ttl:     5 * time.Minute,
		timeout: 8 * time.Second,
		logger:  slog.Default(),
		pick:    rand.IntN,
		cache:   map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time { return s.clock.Now().In(s.loc) }

func (s *Service) choose(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[s.pick(len(lines))]
}

func cacheKey(r Request) string {
	return fmt.Sprintf("%s-%s-%s", r.Navigator, r.Mode, r.Context)
}

func (s *Service) cached(key string) (string, bool) {
	if s.ttl <= 0 {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[key]
	if !ok || s.clock.Now().Sub(e.at) >= s.ttl {
		return "", false
	}
	return e.line, true
}

func (s *Service) remember(key, line string) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{line: line, at: s.clock.Now()}
}

// Speak answers one dialogue request. The only error is
// ErrInvalidRequest; generator failures become fallback or
// connection-trouble lines.
func (s *Service) Speak(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	resp := s.speak(ctx, req)
	for _, fn := range s.hooks {
		fn(req, resp)
	}
	return resp, nil
}

func (s *Service) speak(ctx context.Context, req Request) Response {
	p := PersonaFor(req.Navigator)
	key := cacheKey(req)
	useCache := req.TaskTitle == ""

	if useCache {
		if line, ok := s.cached(key); ok {
			return Response{Line: line, Source: SourceCache}
		}
	}
	if s.gen == nil {
		return Response{Line: s.choose(p.fallbackLines(req.Context)), Source: SourceFallback}
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.gen.Generate(gctx, p.System, BuildPrompt(p, req, s.now()))
	if err != nil {
		s.logger.Warn("navigator_generate_failed",
			slog.String("navigator", string(req.Navigator)),
			slog.String("context", string(req.Context)),
			slog.Any("error", err),
		)
		return Response{Line: s.choose(p.ConnectionTrouble), Source: SourceError}
	}
	text = Clean(text)
	if text == "" {
		return Response{Line: s.choose(p.fallbackLines(req.Context)), Source: SourceFallback}
	}
	if useCache {
		s.remember(key, text)
	}
	return Response{Line: text, Source: SourceGenerated}
}

// Greeting answers the startup request, choosing bond or ignition by
// the local hour.
func (s *Service) Greeting(ctx context.Context, navigator model.NavigatorMode) (Response, model.InteractionContext, error) {
	c := ResolveContext(s.now())
	resp, err := s.Speak(ctx, Request{Navigator: navigator, Mode: model.MoodStandard, Context: c})
	return resp, c, err
}
