package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/hallucination-cache/internal/delivery/http/request"
	"github.com/user/hallucination-cache/internal/delivery/http/response"
	"github.com/user/hallucination-cache/internal/usecase"
)

const healthTimeout = 2 * time.Second

type Handler struct {
	catalog usecase.Catalog
	logger  *zap.Logger
}

func NewHandler(catalog usecase.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *Handler) HandleListPages(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseListPages(r)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pages, err := h.catalog.Recent(r.Context(), req.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidLimit) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to list pages", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.PageListResponse{Pages: make([]response.PageSummary, 0, len(pages))}
	for _, p := range pages {
		resp.Pages = append(resp.Pages, response.NewPageSummary(p))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleCountPages(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Count(r.Context())
	if err != nil {
		h.logger.Error("Failed to count pages", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.PageCountResponse{Count: n})
}

// HandleHealthCheck reports ok when the page store answers in time.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	n, err := h.catalog.Count(ctx)
	if err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Pages: n})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
