package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"local-chat-go/internal/config"
)

// LMStudioClient talks to the OpenAI-compatible chat-completions API.
type LMStudioClient struct {
	cfg    config.LMStudioConfig
	client openai.Client
}

// NewLMStudioClient creates a client rooted at {base_url}/v1/. SDK retries are disabled.
func NewLMStudioClient(cfg config.LMStudioConfig) *LMStudioClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL+"/v1/"),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return &LMStudioClient{cfg: cfg, client: client}
}

func (c *LMStudioClient) Name() string { return "LM Studio" }

func (c *LMStudioClient) Address() string { return hostOf(c.cfg.BaseURL) }

// Generate sends a single user message and returns choices[0].message.content.
func (c *LMStudioClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.cfg.Temperature),
	}
	if c.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(c.cfg.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("lm studio chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels calls /v1/models and returns data[].id.
func (c *LMStudioClient) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx, c.cfg.ModelsTimeout)
	defer cancel()

	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lm studio model list failed: %w", err)
	}
	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return models, nil
}
