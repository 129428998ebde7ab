package game

import (
	"sync"
	"time"

	"github.com/Yoshiyuki1026/smtd/internal/model"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// calendarDate formats t as a local calendar date in loc.
func calendarDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(model.DateLayout)
}

// previousDate returns the calendar day before date. Arithmetic is done
// on a UTC midnight so DST transitions in loc cannot skip or repeat a day.
func previousDate(date string) string {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(model.DateLayout)
}
