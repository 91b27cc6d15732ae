package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainQuerier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "total sales in March", req["query"])

		json.NewEncoder(w).Encode(map[string]string{
			"query":  req["query"],
			"result": "MATCH (o:Order) RETURN sum(o.lineAmount)",
		})
	}))
	defer srv.Close()

	q, err := NewChainQuerier(srv.URL, 5*time.Second)
	require.NoError(t, err)

	result, err := q.Query(context.Background(), "total sales in March")
	require.NoError(t, err)
	assert.Equal(t, "total sales in March", result.Query)
	assert.Equal(t, "MATCH (o:Order) RETURN sum(o.lineAmount)", result.Result)
}

func TestChainQuerierBackfillsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "42"})
	}))
	defer srv.Close()

	q, err := NewChainQuerier(srv.URL, 5*time.Second)
	require.NoError(t, err)

	result, err := q.Query(context.Background(), "how many orders")
	require.NoError(t, err)
	assert.Equal(t, "how many orders", result.Query)
}

func TestChainQuerierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	q, err := NewChainQuerier(srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = q.Query(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryBackend)
	assert.Contains(t, err.Error(), "503")
}

func TestChainQuerierUnreachable(t *testing.T) {
	q, err := NewChainQuerier("http://127.0.0.1:1", time.Second)
	require.NoError(t, err)

	_, err = q.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrQueryBackend)
}

func TestNewChainQuerierRequiresEndpoint(t *testing.T) {
	_, err := NewChainQuerier("", time.Second)
	assert.Error(t, err)
}
