package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/ingest"
	"github.com/salesgraph/graphchat-api/pkg/logger"
)

// IngestHandler handles bulk spreadsheet uploads into the graph store.
type IngestHandler struct {
	processor *ingest.Processor
	logger    *logger.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(processor *ingest.Processor, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		processor: processor,
		logger:    log,
	}
}

// Upload handles POST /ingest/spreadsheet. Accepts a multipart form with a
// "file" field holding a CSV export.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	summary, err := h.processor.Process(r.Context(), file)
	if err != nil {
		h.logger.Error("spreadsheet ingest failed", zap.Error(err))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Spreadsheet processed successfully",
		"summary": summary,
	})
}
