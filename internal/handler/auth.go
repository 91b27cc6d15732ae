// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/middleware"
	"github.com/salesgraph/graphchat-api/internal/model"
	"github.com/salesgraph/graphchat-api/internal/service"
	"github.com/salesgraph/graphchat-api/pkg/logger"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Register(r.Context(), &req); err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User created successfully",
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Profile handles GET /auth/profile. The auth middleware has already
// verified the token; the subject is trusted from context.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())

	profile, err := h.service.Profile(r.Context(), subject)
	if err != nil {
		h.logger.Warn("profile lookup failed", zap.Error(err))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
