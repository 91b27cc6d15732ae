// Package store provides persistence for users, threads and messages.
package store

import (
	"context"
	"errors"

	"github.com/salesgraph/graphchat-api/internal/model"
)

var (
	// ErrDuplicateEmail is returned when a user's email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrThreadNotFound is returned when no thread matches the lookup.
	ErrThreadNotFound = errors.New("thread not found")
)

// Store is the persistence boundary. All shared mutable state lives behind
// it; concurrent requests serialize on the underlying database.
type Store interface {
	// CreateUser persists a new user. Fails with ErrDuplicateEmail when the
	// email is taken.
	CreateUser(ctx context.Context, user *model.User) error

	// FindUserByEmail looks a user up by login identifier. Fails with
	// ErrUserNotFound when absent.
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateThread persists a new thread and assigns its id.
	CreateThread(ctx context.Context, thread *model.Thread) error

	// FindThread looks a thread up by id. Fails with ErrThreadNotFound when
	// absent.
	FindThread(ctx context.Context, id uint) (*model.Thread, error)

	// ListThreadsByUser returns the user's threads in creation order.
	ListThreadsByUser(ctx context.Context, userID uint) ([]model.Thread, error)

	// CreateMessagePair persists the user and assistant halves of one
	// conversation turn atomically, in that order.
	CreateMessagePair(ctx context.Context, userMsg, assistantMsg *model.Message) error

	// ListMessagesByThread returns a thread's messages in creation order.
	ListMessagesByThread(ctx context.Context, threadID uint) ([]model.Message, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}
