package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicQuerier answers graph questions with a single Anthropic message
// call. Used when no chain endpoint is configured.
type AnthropicQuerier struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicQuerier creates a new Anthropic-backed querier.
func NewAnthropicQuerier(apiKey, model string) (*AnthropicQuerier, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	return &AnthropicQuerier{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicQuerier) Name() string {
	return string(ProviderAnthropic)
}

// Query submits the question as a message call.
func (c *AnthropicQuerier) Query(ctx context.Context, query string) (*Result, error) {
	prompt := salesGraphPrompt + "\n\nQuestion: " + query

	messages := []anthropic.MessageParam{
		{
			Role: anthropic.F(anthropic.MessageParamRoleUser),
			Content: anthropic.F([]anthropic.MessageParamContentUnion{
				anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(prompt),
				},
			}),
		},
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(1024)),
		Messages:  anthropic.F(messages),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}
	if content == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrQueryBackend)
	}

	return &Result{
		Query:  query,
		Result: content,
	}, nil
}
