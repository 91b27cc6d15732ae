package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/middleware"
	"github.com/salesgraph/graphchat-api/internal/model"
	"github.com/salesgraph/graphchat-api/internal/service"
	"github.com/salesgraph/graphchat-api/pkg/logger"
)

// MessageHandler handles conversation endpoints.
type MessageHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.ConversationService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /create-message. Returns the persisted user and
// assistant messages as a two-element array, in that order.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())

	var req model.CreateMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userMsg, assistantMsg, err := h.service.CreateMessage(r.Context(), subject, req.Message, req.ThreadID)
	if err != nil {
		h.logger.Warn("create message failed", zap.Error(err))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []*model.Message{userMsg, assistantMsg})
}

// List handles GET /get-messages/{poll_id}. Any caller can read any
// thread's messages; authorization is not enforced here.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	threadID, err := strconv.ParseUint(chi.URLParam(r, "poll_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid poll id")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), uint(threadID))
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// ListPolls handles GET /get-polls, returning the caller's threads.
func (h *MessageHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())

	threads, err := h.service.ListThreads(r.Context(), subject)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, threads)
}

// Query handles POST /query-v2, a raw passthrough to the graph query
// collaborator.
func (h *MessageHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Query(r.Context(), req.Query)
	if err != nil {
		h.logger.Warn("query failed", zap.Error(err))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
