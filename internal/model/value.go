package model

// GeneratedValue is the concrete value produced for a field from its
// strategy decision. Immutable once created.
type GeneratedValue struct {
	Selector  string   `json:"selector"`
	Value     string   `json:"value"`
	Strategy  Strategy `json:"strategy"`
	LatencyMS int64    `json:"latency_ms"`
	Truncated bool     `json:"truncated,omitempty"`
}
