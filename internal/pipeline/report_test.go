package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

func TestFormatReport_Sections(t *testing.T) {
	outcomes := []Outcome{
		valueOutcome("#email", model.StrategySimpleMapping, 0.9),
		failedOutcome("#weird", "classification_failed"),
	}
	form := &model.Form{Company: "Veridian Dynamics", Role: "SWE II", URL: "https://jobs.example.com/v"}
	plan := BuildPlan("run-report", form, outcomes, PlanOptions{ConfidenceFloor: 0.5, AutoSubmitThreshold: 0.85})

	out := FormatReport(plan)

	assert.Contains(t, out, "# Fill Plan: Veridian Dynamics")
	assert.Contains(t, out, "Role: SWE II")
	assert.Contains(t, out, "Run: run-report")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "Fields: 2 (1 fillable, 1 classified)")
	assert.Contains(t, out, "Automation: 50%")
	assert.Contains(t, out, "Estimated time: 11s")
	assert.Contains(t, out, "Auto-submit: not ready")
	assert.Contains(t, out, "## Strategy Distribution")
	assert.Contains(t, out, "simple_mapping")
	assert.Contains(t, out, "## Fields")
	assert.Contains(t, out, "classification_failed")
}

func TestFormatReport_MarksReviewItems(t *testing.T) {
	plan := BuildPlan("run-mark", nil, []Outcome{
		valueOutcome("#low", model.StrategySimpleMapping, 0.2),
	}, PlanOptions{ConfidenceFloor: 0.5})

	out := FormatReport(plan)
	assert.Contains(t, out, "! #low [simple_mapping, 0.20]")
}

func TestFormatReport_ShowsSubmitReady(t *testing.T) {
	plan := BuildPlan("run-ready", nil, []Outcome{
		valueOutcome("#a", model.StrategySimpleMapping, 0.95),
	}, PlanOptions{AutoSubmitThreshold: 0.85})

	assert.Contains(t, FormatReport(plan), "Auto-submit: ready")
}

func TestFormatReport_FallsBackToRunID(t *testing.T) {
	plan := BuildPlan("run-fallback", nil, nil, PlanOptions{})

	assert.Contains(t, FormatReport(plan), "# Fill Plan: run-fallback")
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"collapse whitespace", "a\n b\tc", 10, "a b c"},
		{"clipped", "abcdefghijk", 5, "abcde..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preview(tt.in, tt.n))
		})
	}
}
