package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// mockClient is a testify mock for the llm.Client interface.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Provider() string { return "mock" }

func (m *mockClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// textResponse builds a successful completion carrying text.
func textResponse(text string) *llm.Response {
	return &llm.Response{
		Text:       text,
		Model:      "mock-model",
		StopReason: "end_turn",
		Usage:      llm.Usage{InputTokens: 100, OutputTokens: 25},
	}
}
