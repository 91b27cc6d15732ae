package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChainQuerier calls an external query chain over HTTP: POST {"query": ...}
// to the configured endpoint, expecting {"query": ..., "result": ...} back.
type ChainQuerier struct {
	endpoint string
	client   *http.Client
}

// NewChainQuerier creates a querier against the chain endpoint.
func NewChainQuerier(endpoint string, timeout time.Duration) (*ChainQuerier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("chain endpoint is required")
	}
	return &ChainQuerier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (c *ChainQuerier) Name() string {
	return string(ProviderChain)
}

// Query submits the question to the chain endpoint.
func (c *ChainQuerier) Query(ctx context.Context, query string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: chain returned %d: %s", ErrQueryBackend, resp.StatusCode, data)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: invalid chain response: %v", ErrQueryBackend, err)
	}
	if result.Query == "" {
		result.Query = query
	}

	return &result, nil
}
