package telemetry

import (
	"log/slog"
	"time"

	"github.com/Yoshiyuki1026/smtd/internal/game"
)

// Recorder feeds the event log and the Prometheus collectors. A nil
// *Recorder discards everything.
type Recorder struct {
	repo    Repository
	metrics *Metrics
	logger  *slog.Logger
}

func NewRecorder(repo Repository, metrics *Metrics, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, metrics: metrics, logger: logger}
}

func (r *Recorder) Repository() Repository {
	if r == nil {
		return nil
	}
	return r.repo
}

func (r *Recorder) record(t EventType, meta EventMetadata) {
	if r.repo == nil {
		return
	}
	if err := r.repo.RecordEvent(t, meta); err != nil {
		r.logger.Warn("telemetry_record_failed", slog.String("type", string(t)), slog.Any("error", err))
	}
}

// GameEvent is registered as an engine event sink.
func (r *Recorder) GameEvent(ev game.Event) {
	if r == nil {
		return
	}
	meta := EventMetadata{}
	if ev.TaskID != "" {
		meta["task_id"] = string(ev.TaskID)
		meta["title"] = ev.TaskTitle
	}
	if ev.Reward != nil {
		meta["points"] = ev.Reward.Points
		meta["combo"] = ev.Reward.Combo
		meta["rare"] = ev.Reward.IsRare
		meta["daily_strike"] = ev.Reward.IsDailyStrike
	}
	if ev.Kind == game.EventDayRollover || ev.Kind == game.EventRebirth {
		meta["date"] = ev.State.TodayDate
		meta["streak"] = ev.State.Streak
	}
	r.record(EventType(ev.Kind), meta)

	m := r.metrics
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(string(ev.Kind)).Inc()
	m.Combo.Set(float64(ev.State.Combo))
	m.Streak.Set(float64(ev.State.Streak))
	m.TotalStones.Set(float64(ev.State.TotalStones))
	switch ev.Kind {
	case game.EventTaskCompleted:
		m.Completions.Inc()
		if ev.Reward != nil {
			m.Points.Observe(float64(ev.Reward.Points))
		}
	case game.EventRebirth:
		m.Rebirths.Inc()
	case game.EventDayRollover:
		m.Rollovers.Inc()
	}
}

func (r *Recorder) PersistFailed(err error) {
	if r == nil {
		return
	}
	r.record(EventPersistFailed, EventMetadata{"error": err.Error()})
	if r.metrics != nil {
		r.metrics.PersistFailures.Inc()
	}
}

func (r *Recorder) DialogueLine(navigator, context, source string) {
	if r == nil {
		return
	}
	r.record(EventDialogueLine, EventMetadata{
		"navigator": navigator,
		"context":   context,
		"source":    source,
	})
	if r.metrics != nil {
		r.metrics.DialogueLines.WithLabelValues(source).Inc()
	}
}

func (r *Recorder) SlackNotification(context string, err error) {
	if r == nil {
		return
	}
	result := "sent"
	meta := EventMetadata{"context": context}
	if err != nil {
		result = "failed"
		meta["error"] = err.Error()
		r.record(EventSlackFailed, meta)
	} else {
		r.record(EventSlackSent, meta)
	}
	if r.metrics != nil {
		r.metrics.SlackMessages.WithLabelValues(context, result).Inc()
	}
}

// Stats summarises the events recorded since the given time.
func (r *Recorder) Stats(since time.Time) (Stats, error) {
	if r == nil || r.repo == nil {
		return CalculateStats(nil, since)
	}
	events, err := r.repo.GetEvents(since, nil)
	if err != nil {
		return Stats{}, err
	}
	return CalculateStats(events, since)
}
