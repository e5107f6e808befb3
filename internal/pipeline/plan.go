package pipeline

import (
	"time"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

const (
	// fillOverheadMS is the per-field browser execution estimate added on
	// top of observed model latency.
	fillOverheadMS = 500
	// submitOverheadMS covers page navigation and the submit round trip.
	submitOverheadMS = 10000
	// highConfidenceBar is the strict lower bound for counting a decision
	// as high confidence.
	highConfidenceBar = 0.8
)

// Outcome is the per-field result the runner hands to plan assembly.
type Outcome struct {
	Field    model.FieldDescriptor
	Decision model.StrategyDecision
	Value    *model.GeneratedValue
	State    model.FieldState
	Note     string
	Review   bool
}

// PlanOptions carries the run-level thresholds and totals folded into the
// plan stats.
type PlanOptions struct {
	ConfidenceFloor     float64
	AutoSubmitThreshold float64
	Usage               model.TokenUsage
}

// BuildPlan assembles the execution plan from per-field outcomes, preserving
// their order. Fillable decisions below the confidence floor are flagged for
// manual review but stay in the plan; the floor never blocks a fill.
func BuildPlan(runID string, form *model.Form, outcomes []Outcome, opts PlanOptions) *model.ExecutionPlan {
	items := make([]model.PlanItem, 0, len(outcomes))
	stats := model.PlanStats{
		TotalFields: len(outcomes),
		ByStrategy:  make(map[model.Strategy]int),
		Usage:       opts.Usage,
	}

	requiredBlocked := false
	for _, oc := range outcomes {
		review := oc.Review
		if oc.State == model.StateValueReady && oc.Decision.Confidence < opts.ConfidenceFloor {
			review = true
		}

		item := model.PlanItem{
			Field:        oc.Field,
			Decision:     oc.Decision,
			Value:        oc.Value,
			State:        oc.State,
			Note:         oc.Note,
			ManualReview: review,
		}
		items = append(items, item)

		stats.ByStrategy[item.EffectiveStrategy()]++
		stats.ModelTimeMS += oc.Decision.LatencyMS
		if oc.Value != nil {
			stats.ModelTimeMS += oc.Value.LatencyMS
		}
		if classified(oc.Decision) {
			stats.Classified++
		}
		if oc.Decision.Confidence > highConfidenceBar {
			stats.HighConfidence++
		}
		if review {
			stats.ManualReview++
		}
		if oc.State == model.StateValueReady {
			stats.Fillable++
		} else if oc.Field.Required {
			requiredBlocked = true
		}
	}

	if stats.TotalFields > 0 {
		stats.AutomationRate = float64(stats.Fillable) / float64(stats.TotalFields)
		stats.EstimatedMS = stats.ModelTimeMS + int64(stats.Fillable)*fillOverheadMS + submitOverheadMS
	}
	stats.SubmitReady = stats.TotalFields > 0 &&
		stats.AutomationRate > opts.AutoSubmitThreshold &&
		!requiredBlocked

	plan := &model.ExecutionPlan{
		RunID:     runID,
		Items:     items,
		Stats:     stats,
		CreatedAt: time.Now().UTC(),
	}
	if form != nil {
		plan.Company = form.Company
		plan.Role = form.Role
		plan.URL = form.URL
	}
	return plan
}

// classified reports whether a decision carries a usable verdict rather than
// the zero-confidence skip a failed classification degrades to.
func classified(d model.StrategyDecision) bool {
	return !(d.Strategy == model.StrategySkipField && d.Confidence == 0)
}
