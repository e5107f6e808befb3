package llm

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

// DeepSeek implements Client over DeepSeek's OpenAI-compatible chat API.
type DeepSeek struct {
	client *openai.Client
	model  string
}

// NewDeepSeek creates a DeepSeek-backed client. baseURL may be empty to use
// the OpenAI default, which is only useful in tests.
func NewDeepSeek(apiKey, baseURL, model string) *DeepSeek {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &DeepSeek{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *DeepSeek) Provider() string { return "deepseek" }

func (c *DeepSeek) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	ccReq := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: int(maxTokens),
	}
	if req.Temperature != nil {
		ccReq.Temperature = float32(*req.Temperature)
	}

	resp, err := c.client.CreateChatCompletion(ctx, ccReq)
	if err != nil {
		return nil, eris.Wrap(err, "deepseek: chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("deepseek: completion returned no choices")
	}

	choice := resp.Choices[0]
	return &Response{
		Text:       choice.Message.Content,
		Model:      resp.Model,
		StopReason: string(choice.FinishReason),
		Usage: Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}
