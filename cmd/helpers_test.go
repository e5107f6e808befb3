package main

import (
	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/pipeline"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
)

// testEnv builds an offline fill environment around the stub model client.
func testEnv() *fillEnv {
	store := profile.New(model.Profile{
		Attributes: map[string]string{
			"personal.first_name": "Timothy",
			"personal.last_name":  "Weaver",
			"personal.email":      "tlweave2@asu.edu",
			"personal.phone":      "209-595-1600",
		},
		Documents: []model.KnowledgeDoc{
			{Topic: "career motivation", Content: "I want to build useful software."},
		},
	})

	return &fillEnv{
		Client: &pipeline.StubClient{},
		Store:  store,
		Fill: config.FillConfig{
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
		},
	}
}
