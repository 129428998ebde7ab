package model

import "time"

type BlackHoleID string

// BlackHoleItem is a free-text note parked for later triage.
// Archived=false means "unsorted".
type BlackHoleItem struct {
	ID        BlackHoleID `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Archived  bool        `json:"archived"`
}
