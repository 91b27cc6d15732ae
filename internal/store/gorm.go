package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/salesgraph/graphchat-api/internal/model"
)

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database at dsn and migrates the schema.
func Open(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing GORM connection and migrates the schema.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&model.User{}, &model.Thread{}, &model.Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUser inserts a user, translating unique-constraint violations on the
// email column into ErrDuplicateEmail.
func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail returns the user with the given email.
func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// CreateThread inserts a thread.
func (s *GormStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	if err := s.db.WithContext(ctx).Create(thread).Error; err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

// FindThread returns the thread with the given id.
func (s *GormStore) FindThread(ctx context.Context, id uint) (*model.Thread, error) {
	var thread model.Thread
	err := s.db.WithContext(ctx).First(&thread, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to find thread: %w", err)
	}
	return &thread, nil
}

// ListThreadsByUser returns the user's threads ordered by id.
func (s *GormStore) ListThreadsByUser(ctx context.Context, userID uint) ([]model.Thread, error) {
	var threads []model.Thread
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// CreateMessagePair inserts both halves of a conversation turn in one
// transaction so a failure partway never leaves a lone message behind.
func (s *GormStore) CreateMessagePair(ctx context.Context, userMsg, assistantMsg *model.Message) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(assistantMsg).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create message pair: %w", err)
	}
	return nil
}

// ListMessagesByThread returns the thread's messages ordered by id.
func (s *GormStore) ListMessagesByThread(ctx context.Context, threadID uint) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("messages_poll_id = ?", threadID).
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isUniqueViolation matches postgres unique-constraint errors that GORM does
// not already translate.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "SQLSTATE 23505")
}
