package store

import (
	"context"
	"sync"

	"github.com/salesgraph/graphchat-api/internal/model"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Ids are assigned the way the database would, monotonically per table.
type MemoryStore struct {
	mu sync.RWMutex

	users    []model.User
	threads  []model.Thread
	messages []model.Message

	nextUserID    uint
	nextThreadID  uint
	nextMessageID uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:    1,
		nextThreadID:  1,
		nextMessageID: 1,
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, *user)
	return nil
}

// FindUserByEmail returns the user with the given email.
func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

// CreateThread inserts a thread.
func (s *MemoryStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread.ID = s.nextThreadID
	s.nextThreadID++
	s.threads = append(s.threads, *thread)
	return nil
}

// FindThread returns the thread with the given id.
func (s *MemoryStore) FindThread(ctx context.Context, id uint) (*model.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.threads {
		if t.ID == id {
			thread := t
			return &thread, nil
		}
	}
	return nil, ErrThreadNotFound
}

// ListThreadsByUser returns the user's threads in creation order.
func (s *MemoryStore) ListThreadsByUser(ctx context.Context, userID uint) ([]model.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var threads []model.Thread
	for _, t := range s.threads {
		if t.UserID == userID {
			threads = append(threads, t)
		}
	}
	return threads, nil
}

// CreateMessagePair inserts both halves of a turn together.
func (s *MemoryStore) CreateMessagePair(ctx context.Context, userMsg, assistantMsg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userMsg.ID = s.nextMessageID
	s.nextMessageID++
	assistantMsg.ID = s.nextMessageID
	s.nextMessageID++

	s.messages = append(s.messages, *userMsg, *assistantMsg)
	return nil
}

// ListMessagesByThread returns the thread's messages in creation order.
func (s *MemoryStore) ListMessagesByThread(ctx context.Context, threadID uint) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []model.Message
	for _, m := range s.messages {
		if m.ThreadID == threadID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// ThreadCount reports how many threads exist. Test helper.
func (s *MemoryStore) ThreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}
