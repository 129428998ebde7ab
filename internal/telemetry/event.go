package telemetry

import "time"

type EventType string

const (
	EventTaskAdded          EventType = "task_added"
	EventTaskFocused        EventType = "task_focused"
	EventTaskUnfocused      EventType = "task_unfocused"
	EventTaskCompleted      EventType = "task_completed"
	EventTaskDeleted        EventType = "task_deleted"
	EventTaskReordered      EventType = "task_reordered"
	EventBreakthrough       EventType = "breakthrough"
	EventDayRollover        EventType = "day_rollover"
	EventRebirth            EventType = "rebirth"
	EventBlackHoleAdded     EventType = "black_hole_added"
	EventBlackHoleChanged   EventType = "black_hole_changed"
	EventBlackHoleConverted EventType = "black_hole_converted"
	EventSettingsChanged    EventType = "settings_changed"
	EventPersistFailed      EventType = "persist_failed"
	EventDialogueLine       EventType = "dialogue_line"
	EventSlackSent          EventType = "slack_sent"
	EventSlackFailed        EventType = "slack_failed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]any
