package pipeline

import "fmt"

// UnrecognizedStrategyError reports a model reply whose strategy is outside
// the canonical set. The field downgrades to skip_field with confidence 0.
type UnrecognizedStrategyError struct {
	Strategy string
}

func (e *UnrecognizedStrategyError) Error() string {
	return fmt.Sprintf("unrecognized strategy %q in model reply", e.Strategy)
}

// NoMappingFoundError reports that no profile attribute cleared the fuzzy
// similarity threshold for a simple_mapping field. The field downgrades to
// skip_field and is flagged for manual review.
type NoMappingFoundError struct {
	Label     string
	Threshold float64
}

func (e *NoMappingFoundError) Error() string {
	return fmt.Sprintf("no profile attribute matches %q (threshold %.2f)", e.Label, e.Threshold)
}

// InvalidOptionError reports a selected value that is not in the field's
// option set. The field downgrades to skip_field and is flagged for manual
// review.
type InvalidOptionError struct {
	Selector string
	Value    string
	Options  []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("field %s: %q is not one of the %d allowed options", e.Selector, e.Value, len(e.Options))
}

// GenerationTooLongError reports essay output over the word budget. The
// accompanying value has already been truncated at a sentence boundary and
// is safe to use; the error is recorded in the plan, not fatal.
type GenerationTooLongError struct {
	Selector string
	Words    int
	MaxWords int
}

func (e *GenerationTooLongError) Error() string {
	return fmt.Sprintf("field %s: generated %d words, budget %d; truncated", e.Selector, e.Words, e.MaxWords)
}
