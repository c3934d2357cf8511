// Package httphandler implements the JSON REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/contacttriage/internal/application"
	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	creds      *application.CredentialService
	classifier *application.ClassifierService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	creds *application.CredentialService,
	classifier *application.ClassifierService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		creds:      creds,
		classifier: classifier,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers the /api/v1 routes and the Prometheus
// /metrics endpoint on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/classify", h.Classify)
	mux.HandleFunc("GET /api/v1/credential", h.GetCredential)
	mux.HandleFunc("PUT /api/v1/credential", h.PutCredential)
	mux.HandleFunc("DELETE /api/v1/credential", h.DeleteCredential)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Classify classifies the submitted message. The response is always a
// classification; model failures surface as the fallback values, not as
// error statuses.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.classifier.Classify(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, toClassificationResponse(result))
}

// GetCredential reports whether a credential is configured and where it
// comes from. The credential itself is never returned.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	_, source := h.creds.ResolveWithSource(r.Context())

	writeJSON(w, http.StatusOK, CredentialStatusResponse{
		Configured: source != model.CredentialSourceNone,
		Source:     string(source),
	})
}

// PutCredential stores a new credential.
func (h *Handler) PutCredential(w http.ResponseWriter, r *http.Request) {
	var req PutCredentialRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.creds.Store(r.Context(), req.Value); err != nil {
		if errors.Is(err, application.ErrEmptyCredential) {
			writeError(w, http.StatusBadRequest, "value is required")
			return
		}
		h.logger.Error("failed to store credential", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCredential removes the stored credential.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.creds.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear credential", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
