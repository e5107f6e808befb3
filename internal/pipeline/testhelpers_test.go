package pipeline

import (
	"time"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// testFillConfig returns fill settings tuned for tests: an effectively
// unlimited rate limiter and generous word budgets.
func testFillConfig() config.FillConfig {
	return config.FillConfig{
		ConfidenceFloor:     0.5,
		MaxConcurrency:      4,
		PerCallTimeoutSecs:  5,
		RetryLimit:          3,
		SkipKeywords:        []string{"assessment", "coding challenge"},
		EssayMinWords:       20,
		EssayMaxWords:       150,
		MappingThreshold:    0.7,
		RequestsPerSecond:   1000,
		AutoSubmitThreshold: 0.85,
	}
}

// newTestCaller builds a model caller with backoff shrunk so retry tests
// finish in milliseconds.
func newTestCaller(client llm.Client, cfg config.FillConfig) *modelCaller {
	caller := newModelCaller(client, cfg)
	caller.retry.InitialBackoff = time.Millisecond
	caller.retry.MaxBackoff = 2 * time.Millisecond
	return caller
}

func newTestClassifier(client llm.Client, cfg config.FillConfig) *Classifier {
	return NewClassifier(newTestCaller(client, cfg), cfg)
}

func newTestGenerator(client llm.Client, cfg config.FillConfig) *Generator {
	return NewGenerator(newTestCaller(client, cfg), testProfile(), cfg)
}

func newTestRunner(client llm.Client, cfg config.FillConfig) *Runner {
	runner := NewRunner(client, testProfile(), cfg)
	runner.caller.retry.InitialBackoff = time.Millisecond
	runner.caller.retry.MaxBackoff = 2 * time.Millisecond
	return runner
}

func testProfile() *profile.Store {
	return profile.New(model.Profile{
		Attributes: map[string]string{
			"personal.first_name":           "Timothy",
			"personal.last_name":            "Weaver",
			"personal.email":                "TLWeave2@ASU.edu",
			"personal.phone":                "1-209-595-1600",
			"personal.location":             "Modesto, California",
			"education.school":              "Arizona State University",
			"education.degree":              "Master's Degree",
			"education.major":               "Software Engineering",
			"experience.years":              "3",
			"authorization.work_authorized": "Yes",
		},
		Documents: []model.KnowledgeDoc{
			{
				Topic:   "VidlyAI project",
				Content: "Built VidlyAI, a video tutoring platform that turns long recordings into searchable chapters using Spring Boot, React, and an LLM transcription pipeline.",
			},
			{
				Topic:   "career motivation",
				Content: "Moving from clinical engineering into software so the systems I build reach more people than the hospital equipment I used to maintain.",
			},
			{
				Topic:   "teamwork",
				Content: "Led a four-person capstone team through weekly releases, code review rotations, and a live demo day.",
			},
		},
	})
}

func textField(selector, label string) model.FieldDescriptor {
	return model.FieldDescriptor{Selector: selector, Label: label, Kind: model.KindText}
}

func decisionFor(field model.FieldDescriptor, strategy model.Strategy, confidence float64) model.StrategyDecision {
	return model.StrategyDecision{
		Selector:   field.Selector,
		Strategy:   strategy,
		Confidence: confidence,
	}
}
