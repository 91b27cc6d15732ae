package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesgraph/graphchat-api/internal/auth"
)

func authedHandler(t *testing.T, tokens *auth.TokenService) http.Handler {
	t.Helper()
	return Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetSubject(r.Context())))
	}))
}

func TestAuthMiddlewarePassesSubject(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("ana@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	authedHandler(t, tokens).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ana@x.com", rr.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("ana@x.com")
	require.NoError(t, err)

	otherSecret := auth.NewTokenService("different", time.Hour)
	foreign, err := otherSecret.Issue("ana@x.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic " + token},
		{"bare token", token},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + foreign},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			authedHandler(t, tokens).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestAuthMiddlewareCaseInsensitiveScheme(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue("ana@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rr := httptest.NewRecorder()

	authedHandler(t, tokens).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetSubjectEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetSubject(req.Context()))
}
