// Package service provides business logic for authentication and
// conversations.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/auth"
	"github.com/salesgraph/graphchat-api/internal/events"
	"github.com/salesgraph/graphchat-api/internal/model"
	"github.com/salesgraph/graphchat-api/internal/store"
	"github.com/salesgraph/graphchat-api/pkg/logger"
	"github.com/salesgraph/graphchat-api/pkg/metrics"
)

// ErrInvalidCredentials is returned for unknown email and wrong password
// alike, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// AuthService handles registration, login and profile lookup.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st store.Store, tokens *auth.TokenService, publisher *events.Publisher, log *logger.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		publisher: publisher,
		logger:    log,
	}
}

// Register creates a new user. No token is issued at registration; the
// client logs in separately.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) error {
	if _, err := s.store.FindUserByEmail(ctx, req.Email); err == nil {
		metrics.RecordAuthAttempt("register", "duplicate")
		return store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The unique index still backstops a concurrent register with the same
	// email.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			metrics.RecordAuthAttempt("register", "duplicate")
		}
		return err
	}

	metrics.RecordAuthAttempt("register", "success")
	s.logger.Info("user registered", zap.Uint("user_id", user.ID))

	s.publisher.Publish(ctx, events.Event{
		Type:   events.TypeUserRegistered,
		UserID: user.ID,
	})

	return nil
}

// Login verifies credentials and issues a bearer token alongside the user's
// public profile.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			metrics.RecordAuthAttempt("login", "failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		metrics.RecordAuthAttempt("login", "failure")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.RecordAuthAttempt("login", "success")
	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))

	return &model.LoginResponse{
		Token: token,
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Profile resolves a verified subject email to the user's public profile.
// Tolerates nothing: a token referencing a missing user surfaces as
// store.ErrUserNotFound.
func (s *AuthService) Profile(ctx context.Context, subjectEmail string) (*model.UserProfile, error) {
	user, err := s.store.FindUserByEmail(ctx, subjectEmail)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}
