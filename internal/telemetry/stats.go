package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period          string            `json:"period"`
	EventCounts     map[EventType]int `json:"event_counts"`
	TaskCompletions int               `json:"task_completions"`
	TaskDeletions   int               `json:"task_deletions"`
	PointsEarned    int               `json:"points_earned"`
	MaxCombo        int               `json:"max_combo"`
	RareRewards     int               `json:"rare_rewards"`
	DailyStrikes    int               `json:"daily_strikes"`
	DayRollovers    int               `json:"day_rollovers"`
	Rebirths        int               `json:"rebirths"`
	TasksPerDay     float64           `json:"tasks_per_day"`
	PersistFailures int               `json:"persist_failures"`
	DialogueSources map[string]int    `json:"dialogue_sources"`
	SlackSent       int               `json:"slack_sent"`
	SlackFailed     int               `json:"slack_failed"`
}

// CalculateStats summarises an event log.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:          since.Format("2006-01-02"),
		EventCounts:     make(map[EventType]int),
		DialogueSources: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCompleted:
			stats.TaskCompletions++
			stats.PointsEarned += metaInt(metadata, "points")
			if c := metaInt(metadata, "combo"); c > stats.MaxCombo {
				stats.MaxCombo = c
			}
			if b, _ := metadata["rare"].(bool); b {
				stats.RareRewards++
			}
			if b, _ := metadata["daily_strike"].(bool); b {
				stats.DailyStrikes++
			}
		case EventTaskDeleted:
			stats.TaskDeletions++
		case EventDayRollover:
			stats.DayRollovers++
		case EventRebirth:
			stats.Rebirths++
		case EventPersistFailed:
			stats.PersistFailures++
		case EventDialogueLine:
			if src, ok := metadata["source"].(string); ok {
				stats.DialogueSources[src]++
			}
		case EventSlackSent:
			stats.SlackSent++
		case EventSlackFailed:
			stats.SlackFailed++
		}
	}

	// A period covers one more day than the rollovers it saw.
	stats.TasksPerDay = float64(stats.TaskCompletions) / float64(stats.DayRollovers+1)

	return stats, nil
}

// metaInt reads a JSON number; encoding/json decodes them as float64.
func metaInt(m EventMetadata, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}
