package executor

import (
	"context"

	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

// DryRun is an Executor with no side effects. Every interaction is logged
// so a plan can be rehearsed before pointing the agent at a live form.
type DryRun struct{}

var _ Executor = DryRun{}

func (DryRun) FillField(_ context.Context, item model.PlanItem) error {
	var value string
	if item.Value != nil {
		value = item.Value.Value
	}
	zap.L().Info("dry-run fill",
		zap.String("selector", item.Field.Selector),
		zap.String("label", item.Field.DisplayName()),
		zap.String("strategy", string(item.Decision.Strategy)),
		zap.String("value", clip(value)),
	)
	return nil
}

func (DryRun) Submit(context.Context) error {
	zap.L().Info("dry-run submit")
	return nil
}

// clip keeps essay-length values from flooding the log.
func clip(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
