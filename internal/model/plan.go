package model

import "time"

// PlanItem pairs a field with its decision and, when one was produced, its
// value. Note carries the failure detail for fields that degraded to skip.
type PlanItem struct {
	Field        FieldDescriptor  `json:"field"`
	Decision     StrategyDecision `json:"decision"`
	Value        *GeneratedValue  `json:"value,omitempty"`
	State        FieldState       `json:"state"`
	Note         string           `json:"note,omitempty"`
	ManualReview bool             `json:"manual_review,omitempty"`
}

// EffectiveStrategy returns the strategy the execution layer should act on:
// the classifier's choice when a value is ready, skip otherwise (a field
// downgraded by a generation failure is executed as a skip even though its
// decision records the original intent).
func (it PlanItem) EffectiveStrategy() Strategy {
	if it.State == StateValueReady {
		return it.Decision.Strategy
	}
	return StrategySkipField
}

// PlanStats summarizes an ExecutionPlan. ByStrategy counts effective
// strategies, so the counts always sum to TotalFields.
type PlanStats struct {
	TotalFields    int              `json:"total_fields"`
	Classified     int              `json:"classified"`
	Fillable       int              `json:"fillable"`
	ManualReview   int              `json:"manual_review"`
	HighConfidence int              `json:"high_confidence"`
	ByStrategy     map[Strategy]int `json:"by_strategy"`
	AutomationRate float64          `json:"automation_rate"`
	ModelTimeMS    int64            `json:"model_time_ms"`
	EstimatedMS    int64            `json:"estimated_ms"`
	Usage          TokenUsage       `json:"usage"`
	SubmitReady    bool             `json:"submit_ready"`
}

// ExecutionPlan is the finalized, ordered set of per-field decisions and
// values for one form. Items preserve the source discovery order. Built once
// per run and read-only afterward.
type ExecutionPlan struct {
	RunID     string     `json:"run_id"`
	Company   string     `json:"company,omitempty"`
	Role      string     `json:"role,omitempty"`
	URL       string     `json:"url,omitempty"`
	Items     []PlanItem `json:"items"`
	Stats     PlanStats  `json:"stats"`
	CreatedAt time.Time  `json:"created_at"`
}

// FillableItems returns the items the execution layer should fill, in
// discovery order.
func (p *ExecutionPlan) FillableItems() []PlanItem {
	var items []PlanItem
	for _, it := range p.Items {
		if it.State == StateValueReady {
			items = append(items, it)
		}
	}
	return items
}

// TokenUsage tracks token consumption across model calls.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
}
