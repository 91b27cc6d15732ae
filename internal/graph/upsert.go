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

// Upserter writes parameterized graph statements. Implemented against the
// graph database's HTTP transaction endpoint; the statements themselves are
// owned by the caller.
type Upserter interface {
	Upsert(ctx context.Context, statement string, params map[string]any) error
}

// CypherHTTPClient is an Upserter over the Neo4j HTTP transaction API
// (POST /db/{db}/tx/commit).
type CypherHTTPClient struct {
	endpoint string
	username string
	password string
	client   *http.Client
}

// NewCypherHTTPClient creates a client for the transaction-commit endpoint.
func NewCypherHTTPClient(endpoint, username, password string, timeout time.Duration) (*CypherHTTPClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("cypher endpoint is required")
	}
	return &CypherHTTPClient{
		endpoint: endpoint,
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type cypherStatement struct {
	Statement  string         `json:"statement"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type cypherRequest struct {
	Statements []cypherStatement `json:"statements"`
}

type cypherResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Upsert runs one statement in an auto-committed transaction.
func (c *CypherHTTPClient) Upsert(ctx context.Context, statement string, params map[string]any) error {
	body, err := json.Marshal(cypherRequest{
		Statements: []cypherStatement{{Statement: statement, Parameters: params}},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: graph returned %d: %s", ErrQueryBackend, resp.StatusCode, data)
	}

	var parsed cypherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: invalid graph response: %v", ErrQueryBackend, err)
	}
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrQueryBackend, parsed.Errors[0].Code, parsed.Errors[0].Message)
	}

	return nil
}
