package model

// Strategy is the method used to fill a form field.
type Strategy string

const (
	// StrategySimpleMapping copies a profile attribute into the field.
	StrategySimpleMapping Strategy = "simple_mapping"
	// StrategyRAGGeneration composes long-form text grounded in retrieved
	// profile knowledge.
	StrategyRAGGeneration Strategy = "rag_generation"
	// StrategyOptionSelection picks one entry from the field's option set.
	StrategyOptionSelection Strategy = "option_selection"
	// StrategySkipField leaves the field untouched.
	StrategySkipField Strategy = "skip_field"
)

// AllStrategies returns the four canonical fill strategies.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategySimpleMapping,
		StrategyRAGGeneration,
		StrategyOptionSelection,
		StrategySkipField,
	}
}

// Valid reports whether s is one of the canonical strategies.
func (s Strategy) Valid() bool {
	for _, known := range AllStrategies() {
		if s == known {
			return true
		}
	}
	return false
}

// StrategyDecision is the classifier's verdict for a single field: how it
// should be filled and how sure the model was. One decision per field per
// run, never mutated after creation.
type StrategyDecision struct {
	Selector   string   `json:"selector"`
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
	Question   string   `json:"question,omitempty"`
	MappedKey  string   `json:"mapped_key,omitempty"`
	LatencyMS  int64    `json:"latency_ms"`
}

// FieldState tracks a field's progress through the pipeline. States only
// move forward within a run.
type FieldState string

const (
	StateDiscovered       FieldState = "discovered"
	StateClassified       FieldState = "classified"
	StateValueReady       FieldState = "value_ready"
	StateSkippedByPolicy  FieldState = "skipped_policy"
	StateSkippedByFailure FieldState = "skipped_failure"
)
