package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

const selectSystemPrompt = `You fill bounded form fields for a job applicant. Pick exactly one option from the list that best matches the applicant's attributes. Reply with that option verbatim, nothing else.`

const selectUserPrompt = `Field: %s

Options:
%s

Applicant attributes:
%s`

const essaySystemPrompt = `You write short answers for a job applicant's application forms. Write in the first person as the applicant. Ground every claim in the background provided and never invent employers, dates, or credentials. Write plain prose without markdown or headings.`

const essayUserPrompt = `Question: %s

Background:
%s

Answer in %d to %d words.`

const (
	selectMaxTokens   = 100
	selectTemperature = 0.1

	essayMaxTokens   = 1000
	essayTemperature = 0.4
	// essayTopK is how many knowledge documents ground an essay prompt.
	essayTopK = 3
)

// Generator turns a strategy decision into a concrete field value: profile
// lookups for mappings, deterministic or model-backed choice for bounded
// fields, and grounded prose for essays.
type Generator struct {
	caller  *modelCaller
	store   *profile.Store
	cfg     config.FillConfig
	summary string
}

func NewGenerator(caller *modelCaller, store *profile.Store, cfg config.FillConfig) *Generator {
	return &Generator{caller: caller, store: store, cfg: cfg, summary: store.Summary()}
}

// Generate produces the value for one classified field. Skip decisions yield
// (nil, nil). A *GenerationTooLongError comes back together with the
// truncated value, which is still usable; every other error means no value
// was produced.
func (g *Generator) Generate(ctx context.Context, field model.FieldDescriptor, decision model.StrategyDecision) (*model.GeneratedValue, error) {
	if decision.Strategy == model.StrategySkipField {
		return nil, nil
	}

	start := time.Now()
	var (
		value     string
		truncated bool
		genErr    error
	)
	switch decision.Strategy {
	case model.StrategySimpleMapping:
		value, genErr = g.mapValue(field, decision)
	case model.StrategyOptionSelection:
		value, genErr = g.selectOption(ctx, field, decision)
	case model.StrategyRAGGeneration:
		value, truncated, genErr = g.composeEssay(ctx, field, decision)
	default:
		return nil, eris.Errorf("generate: unknown strategy %q", decision.Strategy)
	}

	if genErr != nil && value == "" {
		return nil, genErr
	}

	return &model.GeneratedValue{
		Selector:  field.Selector,
		Value:     value,
		Strategy:  decision.Strategy,
		LatencyMS: time.Since(start).Milliseconds(),
		Truncated: truncated,
	}, genErr
}

// mapValue resolves a simple mapping: the classifier's attribute hint when it
// holds, then a fuzzy label match against the whole profile.
func (g *Generator) mapValue(field model.FieldDescriptor, decision model.StrategyDecision) (string, error) {
	if key := decision.MappedKey; key != "" {
		if v, ok := g.store.Attribute(key); ok {
			return normalizeValue(field, key, v), nil
		}
	}
	m, ok := g.store.BestMatch(field.DisplayName(), g.cfg.MappingThreshold)
	if !ok {
		return "", &NoMappingFoundError{Label: field.DisplayName(), Threshold: g.cfg.MappingThreshold}
	}
	return normalizeValue(field, m.Key, m.Value), nil
}

// normalizeValue cleans a mapped attribute for form entry based on what kind
// of attribute the key names, then clamps to the field's length limit.
func normalizeValue(field model.FieldDescriptor, key, value string) string {
	value = strings.TrimSpace(value)
	lowKey := strings.ToLower(key)
	switch {
	case strings.Contains(lowKey, "email"):
		value = strings.ToLower(value)
	case strings.Contains(lowKey, "phone"):
		value = formatPhone(value)
	case strings.Contains(lowKey, "name"):
		// Only repair casing that is clearly wrong; "McKenzie" stays put.
		if value == strings.ToLower(value) || value == strings.ToUpper(value) {
			value = cases.Title(language.English).String(strings.ToLower(value))
		}
	}
	if field.MaxLength > 0 {
		if runes := []rune(value); len(runes) > field.MaxLength {
			value = string(runes[:field.MaxLength])
		}
	}
	return value
}

// formatPhone renders US numbers as (XXX) XXX-XXXX, dropping a leading
// country code. Anything that is not ten digits passes through with its
// whitespace collapsed.
func formatPhone(value string) string {
	var digits []byte
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return strings.Join(strings.Fields(value), " ")
	}
	d := string(digits)
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

// selectOption picks one of the field's options, resolving from the profile
// when an attribute lines up and asking the model otherwise.
func (g *Generator) selectOption(ctx context.Context, field model.FieldDescriptor, decision model.StrategyDecision) (string, error) {
	if !field.HasOptions() {
		return "", eris.Errorf("generate: field %s has no options to select from", field.Selector)
	}

	if v, ok := g.optionAttribute(field, decision); ok {
		if opt, ok := matchOption(field.Options, v); ok {
			return opt, nil
		}
	}

	resp, err := g.caller.complete(ctx, llm.Request{
		System:      selectSystemPrompt,
		Prompt:      fmt.Sprintf(selectUserPrompt, field.DisplayName(), formatOptionList(field.Options), g.summary),
		MaxTokens:   selectMaxTokens,
		Temperature: floatPtr(selectTemperature),
	})
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Text)
	answer = strings.Trim(answer, `"'`)
	answer = strings.TrimSuffix(answer, ".")
	if opt, ok := matchOption(field.Options, answer); ok {
		return opt, nil
	}
	return "", &InvalidOptionError{Selector: field.Selector, Value: answer, Options: field.Options}
}

// optionAttribute finds the applicant attribute to line up against the
// option list, preferring the classifier's mapping hint.
func (g *Generator) optionAttribute(field model.FieldDescriptor, decision model.StrategyDecision) (string, bool) {
	if decision.MappedKey != "" {
		if v, ok := g.store.Attribute(decision.MappedKey); ok {
			return v, true
		}
	}
	if m, ok := g.store.BestMatch(field.DisplayName(), g.cfg.MappingThreshold); ok {
		return m.Value, true
	}
	return "", false
}

// matchOption returns the canonical option equal to the candidate, or
// containing it, or contained by it. Containment runs both directions so an
// attribute of "Master's Degree" still lands on the option "Master's".
func matchOption(options []string, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, opt := range options {
		if opt == value {
			return opt, true
		}
	}
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), value) {
			return opt, true
		}
	}
	low := strings.ToLower(value)
	for _, opt := range options {
		lowOpt := strings.ToLower(strings.TrimSpace(opt))
		if lowOpt == "" {
			continue
		}
		if strings.Contains(low, lowOpt) || strings.Contains(lowOpt, low) {
			return opt, true
		}
	}
	return "", false
}

func formatOptionList(options []string) string {
	var b strings.Builder
	for _, opt := range options {
		b.WriteString("- ")
		b.WriteString(opt)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// composeEssay writes grounded long-form text for the extracted question.
// The bool result reports truncation, which pairs the clipped value with a
// *GenerationTooLongError.
func (g *Generator) composeEssay(ctx context.Context, field model.FieldDescriptor, decision model.StrategyDecision) (string, bool, error) {
	question := decision.Question
	if question == "" {
		question = field.DisplayName()
	}

	resp, err := g.caller.complete(ctx, llm.Request{
		System:      essaySystemPrompt,
		Prompt:      fmt.Sprintf(essayUserPrompt, question, g.grounding(question), g.cfg.EssayMinWords, g.cfg.EssayMaxWords),
		MaxTokens:   essayMaxTokens,
		Temperature: floatPtr(essayTemperature),
	})
	if err != nil {
		return "", false, err
	}

	essay := strings.TrimSpace(resp.Text)
	if essay == "" {
		return "", false, eris.New("generate: model returned an empty answer")
	}

	words := len(strings.Fields(essay))
	if g.cfg.EssayMaxWords > 0 && words > g.cfg.EssayMaxWords {
		zap.L().Warn("essay over budget",
			zap.String("selector", field.Selector),
			zap.Int("words", words),
			zap.Int("max_words", g.cfg.EssayMaxWords),
		)
		return truncateAtSentence(essay, g.cfg.EssayMaxWords), true, &GenerationTooLongError{
			Selector: field.Selector,
			Words:    words,
			MaxWords: g.cfg.EssayMaxWords,
		}
	}
	return essay, false, nil
}

// grounding assembles the background block for an essay prompt: the most
// relevant knowledge documents followed by the attribute summary.
func (g *Generator) grounding(question string) string {
	var b strings.Builder
	for _, sn := range g.store.Retrieve(question, essayTopK) {
		b.WriteString(sn.Topic)
		b.WriteString(":\n")
		b.WriteString(sn.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("Key facts:\n")
	b.WriteString(g.summary)
	return b.String()
}

// truncateAtSentence clips text to at most maxWords, backing up to the last
// sentence end inside the budget when one exists.
func truncateAtSentence(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	clipped := strings.Join(words[:maxWords], " ")
	for i := len(clipped) - 1; i >= 0; i-- {
		switch clipped[i] {
		case '.', '!', '?':
			return clipped[:i+1]
		}
	}
	return clipped + "."
}
