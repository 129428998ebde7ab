package config

import "time"

// Balance holds the reward loop tuning.
type Balance struct {
	BasePoints       int           `yaml:"base_points" json:"base_points" validate:"gt=0"`
	ComboWindow      time.Duration `yaml:"combo_window" json:"combo_window" validate:"gt=0"`
	ComboCeiling     int           `yaml:"combo_ceiling" json:"combo_ceiling" validate:"gte=1"`
	StrikeMultiplier float64       `yaml:"strike_multiplier" json:"strike_multiplier" validate:"gte=1"`
	RareChance       float64       `yaml:"rare_chance" json:"rare_chance" validate:"gte=0,lte=1"`
	HistoryLimit     int           `yaml:"history_limit" json:"history_limit" validate:"gte=1"`

	// FocusSlots is fixed at 3 in every preset; it is configurable only
	// so tests can read it from one place.
	FocusSlots int `yaml:"focus_slots" json:"focus_slots" validate:"eq=3"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		BasePoints:       1000,
		ComboWindow:      5 * time.Minute,
		ComboCeiling:     10,
		StrikeMultiplier: 1.5,
		RareChance:       0.10,
		HistoryLimit:     10,
		FocusSlots:       3,
	}
}

// Casual gives a longer combo window.
func Casual() Balance {
	cfg := Default()
	cfg.ComboWindow = 10 * time.Minute
	cfg.RareChance = 0.15
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Balance {
	cfg := Default()
	cfg.ComboWindow = 3 * time.Minute
	cfg.ComboCeiling = 5
	cfg.RareChance = 0.05
	return cfg
}

// Preset resolves a difficulty name; unknown names fall back to Default.
func Preset(name string) Balance {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}

// fillFrom copies zero fields of b from p. RareChance is left alone
// since zero disables rare rewards; an entirely empty Balance takes p
// as a whole.
func (b *Balance) fillFrom(p Balance) {
	if *b == (Balance{}) {
		*b = p
		return
	}
	if b.BasePoints == 0 {
		b.BasePoints = p.BasePoints
	}
	if b.ComboWindow == 0 {
		b.ComboWindow = p.ComboWindow
	}
	if b.ComboCeiling == 0 {
		b.ComboCeiling = p.ComboCeiling
	}
	if b.StrikeMultiplier == 0 {
		b.StrikeMultiplier = p.StrikeMultiplier
	}
	if b.HistoryLimit == 0 {
		b.HistoryLimit = p.HistoryLimit
	}
	if b.FocusSlots == 0 {
		b.FocusSlots = p.FocusSlots
	}
}
