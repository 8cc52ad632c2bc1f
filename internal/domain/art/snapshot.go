package art

// CategorySnapshot is the serializable form of one category plus its
// rule-state side entry.
type CategorySnapshot struct {
	Weights    []float64 `json:"weights"`
	UsageCount int       `json:"usageCount"`
	Threshold  float64   `json:"threshold,omitempty"`
}

// Snapshot captures a trained module for persistence by an external store.
// The engines produce and consume snapshots; they never touch disk
// themselves.
type Snapshot struct {
	ModuleID   string             `json:"moduleId"`
	Dimension  int                `json:"dimension"`
	Vigilance  float64            `json:"vigilance"`
	Categories []CategorySnapshot `json:"categories"`

	// MapField is present only for supervised (ARTMAP) modules.
	MapField map[int]int `json:"mapField,omitempty"`
}
