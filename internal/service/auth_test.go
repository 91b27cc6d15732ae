package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesgraph/graphchat-api/internal/auth"
	"github.com/salesgraph/graphchat-api/internal/model"
	"github.com/salesgraph/graphchat-api/internal/store"
	"github.com/salesgraph/graphchat-api/pkg/logger"
)

func newAuthService(st store.Store) (*AuthService, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewAuthService(st, tokens, nil, logger.NewNop()), tokens
}

func TestRegisterThenLogin(t *testing.T) {
	st := store.NewMemoryStore()
	svc, tokens := newAuthService(st)
	ctx := context.Background()

	err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "ana@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.Name)
	assert.Equal(t, "ana@x.com", resp.Email)
	assert.NotZero(t, resp.ID)

	subject, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()

	err := svc.Register(ctx, &model.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "pw123"})
	require.NoError(t, err)

	before, err := st.FindUserByEmail(ctx, "ana@x.com")
	require.NoError(t, err)

	err = svc.Register(ctx, &model.RegisterRequest{Name: "Eve", Email: "ana@x.com", Password: "other"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	// The existing user's stored hash is untouched.
	after, err := st.FindUserByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Ana", after.Name)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()

	err := svc.Register(ctx, &model.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &model.LoginRequest{Email: "ana@x.com", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, &model.LoginRequest{Email: "ghost@x.com", Password: "pw123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestProfile(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()

	err := svc.Register(ctx, &model.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "pw123"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "ana@x.com", profile.Email)

	_, err = svc.Profile(ctx, "deleted@x.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
