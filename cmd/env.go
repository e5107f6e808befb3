package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/pipeline"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/profile"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// fillEnv holds the model client, the applicant profile, and the fill
// settings shared by the planning commands.
type fillEnv struct {
	Client llm.Client
	Store  *profile.Store
	Fill   config.FillConfig
}

// newRunner builds a fresh runner. Plans carry per-run token usage and the
// provider-unreachable verdict, so every run gets its own runner instead of
// sharing one across forms.
func (e *fillEnv) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(e.Client, e.Store, e.Fill)
}

// initFill validates the config for the given mode ("plan", "run", or
// "serve"), loads the applicant profile, and constructs the model client.
// Mode "plan" substitutes the deterministic stub client, so no credentials
// are needed.
func initFill(mode string) (*fillEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	store, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return nil, err
	}

	client, err := newModelClient(mode == "plan")
	if err != nil {
		return nil, err
	}

	zap.L().Info("fill environment ready",
		zap.String("provider", client.Provider()),
		zap.Int("profile_attributes", store.Len()),
		zap.Int("knowledge_docs", len(store.Documents())),
	)

	return &fillEnv{Client: client, Store: store, Fill: cfg.Fill}, nil
}

func newModelClient(offline bool) (llm.Client, error) {
	if offline {
		return &pipeline.StubClient{}, nil
	}
	switch cfg.Provider {
	case "anthropic":
		return llm.NewAnthropic(cfg.Anthropic.Key, cfg.Anthropic.Model), nil
	case "deepseek":
		return llm.NewDeepSeek(cfg.DeepSeek.Key, cfg.DeepSeek.BaseURL, cfg.DeepSeek.Model), nil
	}
	return nil, eris.Errorf("unknown provider %q", cfg.Provider)
}

// fillMode maps the --offline flag to a config validation mode.
func fillMode(offline bool) string {
	if offline {
		return "plan"
	}
	return "run"
}
