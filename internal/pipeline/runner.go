// Package pipeline turns a discovered application form into an execution
// plan: it classifies each field into a fill strategy, generates the values
// the strategies call for, and aggregates the results with run statistics.
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// Runner executes the fill pipeline for one form at a time. Both stages
// share one model caller so rate limiting, retries, the circuit breaker,
// and cost accounting span the whole run.
type Runner struct {
	caller     *modelCaller
	classifier *Classifier
	generator  *Generator
	cfg        config.FillConfig
}

func NewRunner(client llm.Client, store *profile.Store, cfg config.FillConfig) *Runner {
	caller := newModelCaller(client, cfg)
	return &Runner{
		caller:     caller,
		classifier: NewClassifier(caller, cfg),
		generator:  NewGenerator(caller, store, cfg),
		cfg:        cfg,
	}
}

// Run classifies and fills every field of form concurrently and returns the
// execution plan. Individual field failures degrade to skips inside the
// plan; the error return is reserved for a nil form and for runs where the
// provider never answered a single call.
func (r *Runner) Run(ctx context.Context, form *model.Form) (*model.ExecutionPlan, error) {
	if form == nil {
		return nil, eris.New("run: nil form")
	}

	runID := uuid.NewString()
	zap.L().Info("run starting",
		zap.String("run_id", runID),
		zap.String("company", form.Company),
		zap.String("role", form.Role),
		zap.Int("fields", len(form.Fields)),
	)

	outcomes := make([]Outcome, len(form.Fields))
	g, gctx := errgroup.WithContext(ctx)
	limit := r.cfg.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	summary := r.generator.summary
	for i, field := range form.Fields {
		i, field := i, field
		g.Go(func() error {
			// Each goroutine owns its slot; failures land in the outcome.
			outcomes[i] = r.processField(gctx, field, summary)
			return nil
		})
	}
	_ = g.Wait()

	plan := BuildPlan(runID, form, outcomes, PlanOptions{
		ConfidenceFloor:     r.cfg.ConfidenceFloor,
		AutoSubmitThreshold: r.cfg.AutoSubmitThreshold,
		Usage:               r.caller.totalUsage(),
	})

	zap.L().Info("run complete",
		zap.String("run_id", runID),
		zap.Int("fields", plan.Stats.TotalFields),
		zap.Int("fillable", plan.Stats.Fillable),
		zap.Int("manual_review", plan.Stats.ManualReview),
		zap.Float64("automation_rate", plan.Stats.AutomationRate),
		zap.Bool("submit_ready", plan.Stats.SubmitReady),
	)
	r.caller.logCost("fill_pipeline")

	if ctx.Err() == nil && len(form.Fields) > 0 && r.caller.neverSucceeded() {
		return plan, eris.New("run: every model call failed; provider unreachable")
	}
	return plan, nil
}

// processField runs one field through classification and generation,
// mapping the result onto its lifecycle state.
func (r *Runner) processField(ctx context.Context, field model.FieldDescriptor, summary string) Outcome {
	decision := r.classifier.Classify(ctx, field, summary)
	oc := Outcome{Field: field, Decision: decision}

	if decision.Strategy == model.StrategySkipField {
		if classified(decision) {
			oc.State = model.StateSkippedByPolicy
		} else {
			oc.State = model.StateSkippedByFailure
			oc.Note = decision.Rationale
		}
		return oc
	}

	value, err := r.generator.Generate(ctx, field, decision)
	switch {
	case err == nil:
		oc.State = model.StateValueReady
		oc.Value = value
	case value != nil:
		// A truncated essay is still usable; the note records the overflow.
		oc.State = model.StateValueReady
		oc.Value = value
		oc.Note = err.Error()
	default:
		oc.State = model.StateSkippedByFailure
		oc.Review = reviewWorthy(err)
		if ctx.Err() != nil {
			oc.Note = "cancelled"
			zap.L().Debug("generation cancelled", zap.String("selector", field.Selector))
		} else {
			oc.Note = err.Error()
			zap.L().Warn("generation failed",
				zap.String("selector", field.Selector),
				zap.String("strategy", string(decision.Strategy)),
				zap.Error(err),
			)
		}
	}
	return oc
}

// reviewWorthy reports whether a generation failure deserves a human look:
// the profile had no answer, or the model picked outside the option set.
func reviewWorthy(err error) bool {
	var noMap *NoMappingFoundError
	var badOpt *InvalidOptionError
	return errors.As(err, &noMap) || errors.As(err, &badOpt)
}
