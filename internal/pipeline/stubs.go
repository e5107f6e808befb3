package pipeline

import (
	"context"
	"strings"

	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// StubClient is an offline stand-in for a model provider. It recognizes the
// pipeline's prompts and answers with deterministic canned replies so plans
// can be produced without credentials or network access.
type StubClient struct{}

var _ llm.Client = (*StubClient)(nil)

func (s *StubClient) Provider() string { return "stub" }

func (s *StubClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	switch {
	case strings.Contains(req.System, "Classify the field"):
		text = stubClassifyReply(req.Prompt)
	case strings.Contains(req.System, "one option"):
		text = firstListedOption(req.Prompt)
	default:
		text = stubEssay
	}

	return &llm.Response{
		Text:       text,
		Model:      "stub",
		StopReason: "end_turn",
		Usage:      llm.Usage{InputTokens: 150, OutputTokens: 50},
	}, nil
}

// stubClassifyReply picks a plausible strategy from the prompt's field
// block: bounded fields select, textareas generate, the rest map.
func stubClassifyReply(prompt string) string {
	switch {
	case !strings.Contains(prompt, "options: none"):
		return `{"fill_strategy": "option_selection", "confidence": 0.85, "reasoning": "stub: bounded field"}`
	case strings.Contains(prompt, "type: textarea"):
		return `{"fill_strategy": "rag_generation", "confidence": 0.8, "reasoning": "stub: long-form field", "question_extracted": "Why do you want this role?"}`
	default:
		return `{"fill_strategy": "simple_mapping", "confidence": 0.9, "reasoning": "stub: direct attribute"}`
	}
}

// firstListedOption answers a selection prompt with its first option line.
// Options are listed before the applicant attributes, so the first "- "
// line is always an option.
func firstListedOption(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if opt, ok := strings.CutPrefix(strings.TrimSpace(line), "- "); ok {
			return opt
		}
	}
	return ""
}

const stubEssay = `I build software that helps people get things done. My recent work pairs a Spring Boot backend with a React frontend, and I have spent the last year deepening my Go and systems skills. I like teams that ship quickly and measure results. This role matches where I want to grow, and my mix of engineering discipline and customer focus would let me contribute from the first week.`
