package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/middleware"
	"github.com/lodgic-inc/hotels-engine/pkg/services"
)

// RebuildHandler triggers a full pipeline run. The endpoint is internal and
// sits behind bearer-token auth.
type RebuildHandler struct {
	pipeline services.PipelineService
	logger   *zap.Logger
}

// NewRebuildHandler creates a new RebuildHandler.
func NewRebuildHandler(pipeline services.PipelineService, logger *zap.Logger) *RebuildHandler {
	return &RebuildHandler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers the rebuild endpoint on the given mux, wrapped in
// the auth middleware for the given signing key.
func (h *RebuildHandler) RegisterRoutes(mux *http.ServeMux, key string) {
	mux.Handle("POST /api/internal/rebuild",
		middleware.RequireAuth(key, h.logger)(http.HandlerFunc(h.Rebuild)))
}

// Rebuild handles POST /api/internal/rebuild: runs the pipeline and returns
// the run summary.
func (h *RebuildHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipeline.Run(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("Pipeline run failed", zap.Error(err))
		}
		_ = ErrorResponse(w, http.StatusInternalServerError, "pipeline_failed", err.Error())
		return
	}
	_ = WriteJSON(w, http.StatusOK, result)
}
