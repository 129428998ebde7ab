package model

// InteractionContext selects the dialogue category for the navigator.
type InteractionContext string

const (
	ContextIgnition     InteractionContext = "ignition"
	ContextSuccess      InteractionContext = "success"
	ContextFailure      InteractionContext = "failure"
	ContextIdle         InteractionContext = "idle"
	ContextBond         InteractionContext = "bond"
	ContextBreakthrough InteractionContext = "breakthrough"
	ContextRareSuccess  InteractionContext = "rareSuccess"
	ContextDailyStrike  InteractionContext = "dailyStrike"
)

var interactionContexts = []InteractionContext{
	ContextIgnition,
	ContextSuccess,
	ContextFailure,
	ContextIdle,
	ContextBond,
	ContextBreakthrough,
	ContextRareSuccess,
	ContextDailyStrike,
}

func InteractionContexts() []InteractionContext {
	return append([]InteractionContext(nil), interactionContexts...)
}

func (c InteractionContext) Valid() bool {
	for _, v := range interactionContexts {
		if v == c {
			return true
		}
	}
	return false
}

// Mood is the navigator's delivery: calm on success, amused on failure.
type Mood string

const (
	MoodStandard    Mood = "standard"
	MoodEntertained Mood = "entertained"
)

func (m Mood) Valid() bool {
	return m == MoodStandard || m == MoodEntertained
}

// Interaction is the last dialogue-worthy event emitted by the engine.
type Interaction struct {
	Context   InteractionContext `json:"context"`
	Mood      Mood               `json:"mood"`
	TaskTitle string             `json:"taskTitle,omitempty"`
	Seq       uint64             `json:"seq"`
}
