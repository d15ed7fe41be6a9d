package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/rizaldy/datachat/internal/domain/ai"
	"github.com/rizaldy/datachat/internal/infra/ai/prompt"
)

const defaultMaxTokens = 2048

type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
}

// NewClient talks to any OpenAI-compatible chat endpoint. For a local
// Ollama install use baseURL http://localhost:11434/v1 and any apiKey.
func NewClient(baseURL, apiKey, model string, maxTokens int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, MaxTokens: maxTokens}
}

func (c *Client) GenerateCode(ctx context.Context, genReq domai.GenerateRequest) (string, error) {
	model := c.Model
	if model == "" {
		model = "qwen2.5-coder:1.5b"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt(genReq.Schema, genReq.Sample)},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(genReq.Question)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %v", domai.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domai.ErrModelUnavailable)
	}

	return prompt.StripFences(resp.Choices[0].Message.Content), nil
}
