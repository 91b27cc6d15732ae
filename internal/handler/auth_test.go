package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.com", "password": "pw1234",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp["message"])

	// Duplicate email is a 400.
	rr = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Eve", "email": "ana@x.com", "password": "pw1234",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"name": "Ana", "email": "not-an-email", "password": "pw1234"},
		{"name": "Ana", "email": "ana@x.com", "password": "pw"},
		{"name": "", "email": "ana@x.com", "password": "pw1234"},
	}
	for _, body := range cases {
		rr := env.do(t, http.MethodPost, "/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %v", body)
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ana", "ana@x.com", "pw1234")

	rr := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ana@x.com", "password": "pw1234",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Ana", resp.Name)
	assert.Equal(t, "ana@x.com", resp.Email)

	// The response never carries the password hash.
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ana", "ana@x.com", "pw1234")

	wrongPassword := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ana@x.com", "password": "wrong1",
	})
	unknownEmail := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@x.com", "password": "pw1234",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Same body for both, no account enumeration.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Ana", "ana@x.com", "pw1234")

	rr := env.do(t, http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "ana@x.com", profile.Email)
	assert.NotZero(t, profile.ID)
}

func TestProfileRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Ana", "ana@x.com", "pw1234")

	// Missing token.
	rr := env.do(t, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Tampered token.
	tampered := token[:len(token)-2] + "xx"
	rr = env.do(t, http.MethodGet, "/auth/profile", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfileUserGone(t *testing.T) {
	env := newTestEnv(t)

	// A valid token whose subject no longer resolves to a user.
	orphan, err := env.tokens.Issue("gone@x.com")
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/auth/profile", orphan, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
