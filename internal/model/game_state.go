package model

import "time"

// DateLayout is the calendar date format used for TodayDate and
// LastStrikeDate.
const DateLayout = "2006-01-02"

// GameState holds the singleton reward counters.
type GameState struct {
	CompletedToday      int        `json:"completedToday"`
	TotalStones         int        `json:"totalStones"`
	Combo               int        `json:"combo"`
	LastCompletedAt     *time.Time `json:"lastCompletedAt,omitempty"`
	TodayDate           string     `json:"todayDate"`
	RebirthCount        int        `json:"rebirthCount"`
	Streak              int        `json:"streak"`
	LastStrikeDate      string     `json:"lastStrikeDate,omitempty"`
	TodayStrikeAchieved bool       `json:"todayStrikeAchieved"`
}

func NewGameState(today string) GameState {
	return GameState{TodayDate: today}
}

// Clone returns a copy that shares no pointers with gs.
func (gs GameState) Clone() GameState {
	out := gs
	if gs.LastCompletedAt != nil {
		t := *gs.LastCompletedAt
		out.LastCompletedAt = &t
	}
	return out
}
