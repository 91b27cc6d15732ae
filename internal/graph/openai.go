package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const salesGraphPrompt = `You are an analyst for a sales knowledge graph of customers,
salesmen, products, orders, returns and delivery areas. Answer the user's
question about this data concisely, in plain language.`

// OpenAIQuerier answers graph questions with a single OpenAI chat
// completion. Used when no chain endpoint is configured.
type OpenAIQuerier struct {
	client *openai.Client
	model  string
}

// NewOpenAIQuerier creates a new OpenAI-backed querier.
func NewOpenAIQuerier(apiKey, model string) (*OpenAIQuerier, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIQuerier{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIQuerier) Name() string {
	return string(ProviderOpenAI)
}

// Query submits the question as a chat completion.
func (c *OpenAIQuerier) Query(ctx context.Context, query string) (*Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: salesGraphPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   1024,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrQueryBackend)
	}

	return &Result{
		Query:  query,
		Result: resp.Choices[0].Message.Content,
	}, nil
}
