// Package executor applies finished execution plans to forms. The concrete
// fill surface (a browser driver, an HTTP client) stays behind the Executor
// interface; the package ships a dry-run adapter for rehearsing plans.
package executor

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

// Executor fills individual form fields and submits the form. FillField
// receives the full plan item so adapters can use the selector, the value,
// and the strategy that produced it.
type Executor interface {
	FillField(ctx context.Context, item model.PlanItem) error
	Submit(ctx context.Context) error
}

// Options control how ApplyPlan walks a plan.
type Options struct {
	// Submit requests form submission after filling. The request is honored
	// only when the plan is submit-ready and every required field filled.
	Submit bool
}

// FieldResult records one fill attempt.
type FieldResult struct {
	Selector string `json:"selector"`
	Label    string `json:"label,omitempty"`
	Filled   bool   `json:"filled"`
	Review   bool   `json:"manual_review,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FillReport summarizes one ApplyPlan pass: what was typed, what failed,
// and whether the form went out.
type FillReport struct {
	RunID      string        `json:"run_id"`
	Filled     int           `json:"filled"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	Review     int           `json:"manual_review"`
	Submitted  bool          `json:"submitted"`
	Results    []FieldResult `json:"results"`
	DurationMS int64         `json:"duration_ms"`
}

// ApplyPlan walks the plan's items in discovery order, filling each one that
// has a value ready. A failed field never aborts the walk; it is recorded
// and, when the field was required, it withholds submission. Review-flagged
// items are filled like any other and surfaced in the report for a human
// pass afterward.
func ApplyPlan(ctx context.Context, exec Executor, plan *model.ExecutionPlan, opts Options) (*FillReport, error) {
	if plan == nil {
		return nil, eris.New("apply: nil plan")
	}

	start := time.Now()
	report := &FillReport{RunID: plan.RunID}

	var requiredFailed int
	for _, item := range plan.Items {
		if item.State != model.StateValueReady {
			report.Skipped++
			continue
		}

		res := FieldResult{
			Selector: item.Field.Selector,
			Label:    item.Field.Label,
			Review:   item.ManualReview,
		}
		if item.ManualReview {
			report.Review++
			zap.L().Info("filling review-flagged field",
				zap.String("selector", item.Field.Selector),
				zap.Float64("confidence", item.Decision.Confidence),
			)
		}

		err := ctx.Err()
		if err == nil {
			err = exec.FillField(ctx, item)
		}
		if err != nil {
			report.Failed++
			res.Error = err.Error()
			if item.Field.Required {
				requiredFailed++
			}
			zap.L().Warn("fill failed",
				zap.String("selector", item.Field.Selector),
				zap.Bool("required", item.Field.Required),
				zap.Error(err),
			)
		} else {
			report.Filled++
			res.Filled = true
		}
		report.Results = append(report.Results, res)
	}

	if opts.Submit {
		switch {
		case ctx.Err() != nil:
			zap.L().Debug("submit withheld: run cancelled", zap.String("run_id", plan.RunID))
		case !plan.Stats.SubmitReady:
			zap.L().Info("submit withheld: plan not submit-ready", zap.String("run_id", plan.RunID))
		case requiredFailed > 0:
			zap.L().Warn("submit withheld: required fields failed",
				zap.String("run_id", plan.RunID),
				zap.Int("required_failed", requiredFailed),
			)
		default:
			if err := exec.Submit(ctx); err != nil {
				report.DurationMS = time.Since(start).Milliseconds()
				return report, eris.Wrap(err, "apply: submit")
			}
			report.Submitted = true
			zap.L().Info("form submitted", zap.String("run_id", plan.RunID))
		}
	}

	report.DurationMS = time.Since(start).Milliseconds()
	zap.L().Info("plan applied",
		zap.String("run_id", plan.RunID),
		zap.Int("filled", report.Filled),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Bool("submitted", report.Submitted),
	)
	return report, nil
}
