package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

const classifySystemPrompt = `You are the planning stage of a job application agent. Classify the field you are given into exactly one fill strategy:

- simple_mapping: the field asks for a single factual attribute the applicant already lists (name, email, phone, school, years of experience). Set mapped_to to the best attribute key.
- rag_generation: the field wants free-form prose about the applicant (why this company, describe a project, cover letter). Set question_extracted to the question the text must answer.
- option_selection: the field limits the answer to its listed options and the applicant's attributes determine which fits.
- skip_field: the field cannot be answered from the applicant's attributes (uploads, demographics they did not provide, facts not on file).

Reply with JSON only, no prose:
{"fill_strategy": "...", "confidence": 0.0, "reasoning": "...", "mapped_to": "...", "question_extracted": "..."}

confidence is your certainty in [0,1]. Leave mapped_to and question_extracted empty when they do not apply.`

const classifyUserPrompt = `Field:
  label: %s
  type: %s
  required: %t
  options: %s
  section: %s
  context: %s

Known applicant attributes:
%s`

const (
	classifyMaxTokens   = 500
	classifyTemperature = 0.1

	// maxContextChars caps the surrounding-text excerpt fed to the prompt.
	maxContextChars = 500
)

// Classifier decides how each form field should be filled. Cheap verdicts
// (skip keywords, file uploads) are made locally; everything else goes to
// the model. Classify never returns an error: a field that cannot be
// classified degrades to a zero-confidence skip so one bad field never
// stalls the rest of the form.
type Classifier struct {
	caller *modelCaller
	cfg    config.FillConfig
}

func NewClassifier(caller *modelCaller, cfg config.FillConfig) *Classifier {
	return &Classifier{caller: caller, cfg: cfg}
}

// Classify produces the strategy decision for one field.
func (c *Classifier) Classify(ctx context.Context, field model.FieldDescriptor, profileSummary string) model.StrategyDecision {
	if kw, ok := matchSkipKeyword(field, c.cfg.SkipKeywords); ok {
		zap.L().Info("field skipped by keyword",
			zap.String("selector", field.Selector),
			zap.String("keyword", kw),
		)
		return model.StrategyDecision{
			Selector:   field.Selector,
			Strategy:   model.StrategySkipField,
			Confidence: 1,
			Rationale:  fmt.Sprintf("label matches skip keyword %q", kw),
		}
	}

	if field.Kind == model.KindFile {
		return model.StrategyDecision{
			Selector:   field.Selector,
			Strategy:   model.StrategySkipField,
			Confidence: 1,
			Rationale:  "file upload requires a document",
		}
	}

	start := time.Now()
	resp, err := c.caller.complete(ctx, llm.Request{
		System:      classifySystemPrompt,
		Prompt:      buildClassifyPrompt(field, profileSummary),
		MaxTokens:   classifyMaxTokens,
		Temperature: floatPtr(classifyTemperature),
	})
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() != nil {
			zap.L().Debug("classification cancelled", zap.String("selector", field.Selector))
			return model.StrategyDecision{
				Selector:  field.Selector,
				Strategy:  model.StrategySkipField,
				Rationale: "cancelled",
				LatencyMS: latency,
			}
		}
		zap.L().Warn("classification failed",
			zap.String("selector", field.Selector),
			zap.Error(err),
		)
		return model.StrategyDecision{
			Selector:  field.Selector,
			Strategy:  model.StrategySkipField,
			Rationale: "classification_failed",
			LatencyMS: latency,
		}
	}

	decision, err := parseDecision(resp.Text)
	if err != nil {
		zap.L().Warn("unusable classification reply",
			zap.String("selector", field.Selector),
			zap.Error(err),
		)
		return model.StrategyDecision{
			Selector:  field.Selector,
			Strategy:  model.StrategySkipField,
			Rationale: err.Error(),
			LatencyMS: latency,
		}
	}

	decision.Selector = field.Selector
	decision.LatencyMS = latency

	// A bounded field is filled from its option set no matter what the
	// model thought it saw.
	if field.HasOptions() && decision.Strategy == model.StrategySimpleMapping {
		zap.L().Debug("mapping overridden for bounded field", zap.String("selector", field.Selector))
		decision.Strategy = model.StrategyOptionSelection
	}

	switch decision.Strategy {
	case model.StrategyRAGGeneration:
		if decision.Question == "" {
			decision.Question = field.DisplayName()
		}
		decision.MappedKey = ""
	case model.StrategySkipField:
		decision.MappedKey = ""
		decision.Question = ""
	default:
		decision.Question = ""
	}

	zap.L().Debug("field classified",
		zap.String("selector", field.Selector),
		zap.String("strategy", string(decision.Strategy)),
		zap.Float64("confidence", decision.Confidence),
	)
	return decision
}

// matchSkipKeyword scans the label and surrounding context for configured
// skip keywords. Matching is case-insensitive substring containment.
func matchSkipKeyword(field model.FieldDescriptor, keywords []string) (string, bool) {
	haystack := strings.ToLower(field.Label + " " + field.Context)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

func buildClassifyPrompt(field model.FieldDescriptor, profileSummary string) string {
	options := "none"
	if field.HasOptions() {
		options = strings.Join(field.Options, " | ")
	}
	return fmt.Sprintf(classifyUserPrompt,
		field.DisplayName(),
		field.Kind,
		field.Required,
		options,
		field.Section,
		clampText(field.Context, maxContextChars),
		profileSummary,
	)
}

func clampText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// rawDecision is the JSON contract the classify prompt asks the model for.
type rawDecision struct {
	FillStrategy string  `json:"fill_strategy"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
	MappedTo     string  `json:"mapped_to"`
	Question     string  `json:"question_extracted"`
}

// parseDecision extracts a strategy decision from a model reply, tolerating
// markdown fences and prose around the JSON object.
func parseDecision(text string) (model.StrategyDecision, error) {
	var raw rawDecision
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &raw); err != nil {
		return model.StrategyDecision{}, eris.Wrap(err, "classify: parse model reply")
	}

	strategy := model.Strategy(strings.ToLower(strings.TrimSpace(raw.FillStrategy)))
	if !strategy.Valid() {
		return model.StrategyDecision{}, &UnrecognizedStrategyError{Strategy: raw.FillStrategy}
	}
	if raw.Confidence < 0 || raw.Confidence > 1 {
		return model.StrategyDecision{}, eris.Errorf("classify: confidence %.3f out of range", raw.Confidence)
	}

	return model.StrategyDecision{
		Strategy:   strategy,
		Confidence: raw.Confidence,
		Rationale:  strings.TrimSpace(raw.Reasoning),
		Question:   strings.TrimSpace(raw.Question),
		MappedKey:  strings.TrimSpace(raw.MappedTo),
	}, nil
}

// cleanModelJSON strips markdown fences and any prose outside the outermost
// JSON object.
func cleanModelJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
