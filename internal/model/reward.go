package model

import "time"

// RewardHistoryLimit bounds the reward log.
const RewardHistoryLimit = 10

// RewardHistoryItem is written once per completion. TaskTitle is a
// snapshot of the title at completion time.
type RewardHistoryItem struct {
	Points      int       `json:"points"`
	Combo       int       `json:"combo"`
	TaskTitle   string    `json:"taskTitle"`
	CompletedAt time.Time `json:"completedAt"`
}

// Reward is the transient signal the presentation layer renders and
// then clears.
type Reward struct {
	Points        int  `json:"points"`
	Combo         int  `json:"combo"`
	IsRare        bool `json:"isRare"`
	IsDailyStrike bool `json:"isDailyStrike"`
}

// Completion is the {title, completedAt} pair handed to the dialogue
// collaborator.
type Completion struct {
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completedAt"`
}
