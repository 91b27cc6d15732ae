package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/events"
	"github.com/salesgraph/graphchat-api/internal/graph"
	"github.com/salesgraph/graphchat-api/internal/model"
	"github.com/salesgraph/graphchat-api/internal/store"
	"github.com/salesgraph/graphchat-api/pkg/logger"
	"github.com/salesgraph/graphchat-api/pkg/metrics"
)

// threadNameWords is how many leading words of the first message name a new
// thread.
const threadNameWords = 4

// ConversationService orchestrates thread resolution, message persistence
// and delegation to the graph query collaborator.
type ConversationService struct {
	store        store.Store
	querier      graph.Querier
	publisher    *events.Publisher
	logger       *logger.Logger
	queryTimeout time.Duration
}

// NewConversationService creates a new conversation service.
func NewConversationService(
	st store.Store,
	querier graph.Querier,
	publisher *events.Publisher,
	log *logger.Logger,
	queryTimeout time.Duration,
) *ConversationService {
	return &ConversationService{
		store:        st,
		querier:      querier,
		publisher:    publisher,
		logger:       log,
		queryTimeout: queryTimeout,
	}
}

// CreateMessage runs one conversation turn for the authenticated subject:
// resolve the target thread (creating one named after the message's leading
// words when no id is supplied), ask the collaborator, then persist the
// user and assistant messages atomically. A collaborator failure aborts the
// turn before any message is written; a freshly created thread remains.
func (s *ConversationService) CreateMessage(ctx context.Context, subjectEmail, content string, threadID *uint) (*model.Message, *model.Message, error) {
	user, err := s.store.FindUserByEmail(ctx, subjectEmail)
	if err != nil {
		return nil, nil, err
	}

	thread, err := s.resolveThread(ctx, user.ID, content, threadID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.Query(ctx, content)
	if err != nil {
		s.logger.Warn("graph query failed",
			zap.Uint("thread_id", thread.ID),
			zap.Error(err),
		)
		return nil, nil, err
	}

	userMsg := &model.Message{
		Content:  content,
		ThreadID: thread.ID,
	}
	assistantMsg := &model.Message{
		Content:   result.Result,
		ThreadID:  thread.ID,
		Assistant: true,
	}

	if err := s.store.CreateMessagePair(ctx, userMsg, assistantMsg); err != nil {
		return nil, nil, err
	}

	metrics.MessagesTotal.WithLabelValues("user").Inc()
	metrics.MessagesTotal.WithLabelValues("assistant").Inc()

	s.publisher.Publish(ctx, events.Event{
		Type:     events.TypeTurnCompleted,
		UserID:   user.ID,
		ThreadID: thread.ID,
	})

	return userMsg, assistantMsg, nil
}

// Query asks the collaborator a natural-language question under the
// configured timeout. Also backs the raw /query-v2 passthrough.
func (s *ConversationService) Query(ctx context.Context, query string) (*graph.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	ctx, span := otel.Tracer("conversation").Start(ctx, "graph.query")
	span.SetAttributes(attribute.String("graph.provider", s.querier.Name()))
	defer span.End()

	start := time.Now()
	result, err := s.querier.Query(ctx, query)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordGraphQuery(s.querier.Name(), status, time.Since(start).Seconds())

	return result, err
}

// ListMessages returns a thread's messages in creation order. No ownership
// check; authorization is enforced at the boundary, if at all.
func (s *ConversationService) ListMessages(ctx context.Context, threadID uint) ([]model.Message, error) {
	messages, err := s.store.ListMessagesByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

// ListThreads returns the authenticated subject's threads.
func (s *ConversationService) ListThreads(ctx context.Context, subjectEmail string) ([]model.Thread, error) {
	user, err := s.store.FindUserByEmail(ctx, subjectEmail)
	if err != nil {
		return nil, err
	}
	threads, err := s.store.ListThreadsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if threads == nil {
		threads = []model.Thread{}
	}
	return threads, nil
}

// resolveThread finds the supplied thread or creates a new one named after
// the message's leading words. An existing thread is not checked for
// ownership by the acting user; the supplied id is trusted.
func (s *ConversationService) resolveThread(ctx context.Context, userID uint, content string, threadID *uint) (*model.Thread, error) {
	if threadID != nil {
		return s.store.FindThread(ctx, *threadID)
	}

	thread := &model.Thread{
		UserID: userID,
		Name:   ThreadName(content),
	}
	if err := s.store.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	metrics.ThreadsTotal.Inc()
	s.logger.Info("thread created",
		zap.Uint("thread_id", thread.ID),
		zap.Uint("user_id", userID),
	)

	return thread, nil
}

// ThreadName derives a thread name from the first message's leading words,
// at most threadNameWords of them.
func ThreadName(content string) string {
	words := strings.Fields(content)
	if len(words) > threadNameWords {
		words = words[:threadNameWords]
	}
	return strings.Join(words, " ")
}
