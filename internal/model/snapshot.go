package model

// NavigatorMode picks one of the two navigator personas.
type NavigatorMode string

const (
	NavigatorA NavigatorMode = "A"
	NavigatorB NavigatorMode = "B"
)

func (m NavigatorMode) Valid() bool {
	return m == NavigatorA || m == NavigatorB
}

type UISettings struct {
	DirectAddDefault bool `json:"directAddDefault"`
}

// Snapshot is the persisted document. Field names are part of the
// storage format. Timestamps are re-encoded as RFC 3339 with only the
// fractional digits they need, so a document written by another client
// with "...00.000Z" loads as the same instant but saves as "...00Z".
type Snapshot struct {
	Tasks         []Task              `json:"tasks"`
	GameState     GameState           `json:"gameState"`
	BlackHole     []BlackHoleItem     `json:"blackHole"`
	NavigatorMode NavigatorMode       `json:"navigatorMode"`
	UISettings    UISettings          `json:"uiSettings"`
	RewardHistory []RewardHistoryItem `json:"rewardHistory"`
}

// Normalize replaces nil collections with empty ones and fills a
// missing navigator mode, so documents written by older clients load
// and re-save with stable JSON.
func (s *Snapshot) Normalize() {
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.BlackHole == nil {
		s.BlackHole = []BlackHoleItem{}
	}
	if s.RewardHistory == nil {
		s.RewardHistory = []RewardHistoryItem{}
	}
	if !s.NavigatorMode.Valid() {
		s.NavigatorMode = NavigatorA
	}
}
