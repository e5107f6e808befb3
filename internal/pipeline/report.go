package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

// FormatReport renders an execution plan as a human-readable summary for
// terminal output.
func FormatReport(plan *model.ExecutionPlan) string {
	var b strings.Builder

	title := plan.Company
	if title == "" {
		title = plan.RunID
	}
	fmt.Fprintf(&b, "# Fill Plan: %s\n\n", title)
	if plan.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", plan.Role)
	}
	if plan.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", plan.URL)
	}
	fmt.Fprintf(&b, "Run: %s\n\n", plan.RunID)

	st := plan.Stats
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "Fields: %d (%d fillable, %d classified)\n", st.TotalFields, st.Fillable, st.Classified)
	fmt.Fprintf(&b, "Manual review: %d\n", st.ManualReview)
	fmt.Fprintf(&b, "High confidence (>%.1f): %d\n", highConfidenceBar, st.HighConfidence)
	fmt.Fprintf(&b, "Automation: %.0f%%\n", st.AutomationRate*100)
	fmt.Fprintf(&b, "Estimated time: %s\n", (time.Duration(st.EstimatedMS) * time.Millisecond).Round(time.Second))
	fmt.Fprintf(&b, "Tokens: %d in / %d out\n", st.Usage.InputTokens, st.Usage.OutputTokens)
	if st.SubmitReady {
		b.WriteString("Auto-submit: ready\n")
	} else {
		b.WriteString("Auto-submit: not ready\n")
	}

	b.WriteString("\n## Strategy Distribution\n\n")
	for _, s := range model.AllStrategies() {
		count := st.ByStrategy[s]
		pct := 0.0
		if st.TotalFields > 0 {
			pct = float64(count) / float64(st.TotalFields) * 100
		}
		fmt.Fprintf(&b, "%-16s %3d (%.1f%%)\n", s, count, pct)
	}

	b.WriteString("\n## Fields\n\n")
	for _, it := range plan.Items {
		marker := " "
		if it.ManualReview {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %s [%s, %.2f]", marker, it.Field.DisplayName(), it.Decision.Strategy, it.Decision.Confidence)
		switch {
		case it.Value != nil:
			fmt.Fprintf(&b, " -> %s", preview(it.Value.Value, 60))
		case it.Note != "":
			fmt.Fprintf(&b, " -- %s", it.Note)
		case it.Decision.Rationale != "":
			fmt.Fprintf(&b, " -- %s", it.Decision.Rationale)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// preview collapses whitespace and clips a value for one-line display.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
