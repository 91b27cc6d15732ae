package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/salesgraph/graphchat-api/internal/auth"
	"github.com/salesgraph/graphchat-api/internal/graph"
	"github.com/salesgraph/graphchat-api/internal/middleware"
	"github.com/salesgraph/graphchat-api/internal/service"
	"github.com/salesgraph/graphchat-api/internal/store"
	"github.com/salesgraph/graphchat-api/pkg/logger"
)

// echoQuerier answers with a canned result, or an error when failing.
type echoQuerier struct {
	result  string
	failing bool
}

func (q *echoQuerier) Query(ctx context.Context, query string) (*graph.Result, error) {
	if q.failing {
		return nil, graph.ErrQueryBackend
	}
	return &graph.Result{Query: query, Result: q.result}, nil
}

func (q *echoQuerier) Name() string { return "echo" }

type testEnv struct {
	router  *chi.Mux
	store   *store.MemoryStore
	tokens  *auth.TokenService
	querier *echoQuerier
}

// newTestEnv wires the API routes the way cmd/api does, over in-memory
// dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	querier := &echoQuerier{result: "the answer"}
	log := logger.NewNop()

	authSvc := service.NewAuthService(st, tokens, nil, log)
	convSvc := service.NewConversationService(st, querier, nil, log, time.Second)

	authHandler := NewAuthHandler(authSvc, log)
	messageHandler := NewMessageHandler(convSvc, log)
	healthHandler := NewHealthHandler(st)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/auth/profile", authHandler.Profile)
		r.Post("/create-message", messageHandler.Create)
		r.Get("/get-polls", messageHandler.ListPolls)
	})
	r.Get("/get-messages/{poll_id}", messageHandler.List)
	r.Post("/query-v2", messageHandler.Query)

	return &testEnv{
		router:  r,
		store:   st,
		tokens:  tokens,
		querier: querier,
	}
}

// do runs a JSON request against the test router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// register creates a user and returns a login token.
func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
