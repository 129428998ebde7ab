package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/navigator"
)

// Scheduler fires the configured slots in-process.
type Scheduler struct {
	c       *cron.Cron
	n       *Notifier
	logger  *slog.Logger
	loc     *time.Location
	timeout time.Duration
}

func NewScheduler(n *Notifier, slots []config.Slot, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		c:       cron.New(cron.WithLocation(loc)),
		n:       n,
		logger:  logger,
		loc:     loc,
		timeout: time.Minute,
	}
	for _, slot := range slots {
		ctxName, err := navigator.ParseSlot(slot.Context)
		if err != nil {
			return nil, err
		}
		if _, err := s.c.AddFunc(slot.Spec, func() { s.fire(ctxName) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", slot.Context, slot.Spec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) fire(slot navigator.Slot) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.logger.Info("slack_slot_fired", slog.String("context", string(slot)))
	s.n.Notify(ctx, slot)
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the scheduler and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Next returns the next run time of every slot in the scheduler's
// zone, in the order the slots were added.
func (s *Scheduler) Next(now time.Time) []time.Time {
	entries := s.c.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Schedule.Next(now.In(s.loc)))
	}
	return out
}
