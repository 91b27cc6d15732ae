// Package graph provides clients for the external natural-language graph
// query collaborator: a service or model that turns a question into a graph
// query and back into a textual answer. The collaborator is opaque; this
// package does no query planning of its own.
package graph

import (
	"context"
	"errors"
)

// ErrQueryBackend is returned when the collaborator fails or is unreachable.
var ErrQueryBackend = errors.New("graph query backend failure")

// Result is the collaborator's answer to a natural-language query.
type Result struct {
	Query  string `json:"query"`
	Result string `json:"result"`
}

// Querier answers natural-language questions about the graph.
type Querier interface {
	// Query submits a natural-language question and returns the answer.
	Query(ctx context.Context, query string) (*Result, error)

	// Name returns the provider name, used in logs and metrics.
	Name() string
}

// Provider is the type of graph query backend.
type Provider string

const (
	ProviderChain     Provider = "chain"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)
