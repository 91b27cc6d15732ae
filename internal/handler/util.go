package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/salesgraph/graphchat-api/internal/auth"
	"github.com/salesgraph/graphchat-api/internal/graph"
	"github.com/salesgraph/graphchat-api/internal/service"
	"github.com/salesgraph/graphchat-api/internal/store"
)

// validate checks request body struct tags.
var validate = validator.New()

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeMappedError maps domain errors onto HTTP statuses. Unknown errors
// are a 500 with a generic message; the cause stays in the logs.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrThreadNotFound):
		writeError(w, http.StatusNotFound, "Messages poll not found")
	case errors.Is(err, graph.ErrQueryBackend):
		writeError(w, http.StatusBadGateway, "Query backend failure")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeAndValidate decodes a JSON body into v and runs struct validation.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}
