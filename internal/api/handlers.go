package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lumby98/web-bot/internal/adapter"
	"github.com/Lumby98/web-bot/internal/database"
	"github.com/Lumby98/web-bot/internal/jobs"
)

type Handlers struct {
	jobs     *jobs.Manager
	catalog  *database.CatalogStore
	registry *adapter.Registry
	logger   *slog.Logger
}

func NewHandlers(jobManager *jobs.Manager, catalog *database.CatalogStore, registry *adapter.Registry, logger *slog.Logger) *Handlers {
	return &Handlers{
		jobs:     jobManager,
		catalog:  catalog,
		registry: registry,
		logger:   logger.With("component", "api"),
	}
}

// CrawlRequest triggers one crawl run. Credentials are per run; this
// service neither stores nor encrypts them.
type CrawlRequest struct {
	SupplierID string `json:"supplier_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (h *Handlers) CreateCrawl(w http.ResponseWriter, r *http.Request) {
	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SupplierID == "" || req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "supplier_id, username and password are required")
		return
	}
	if _, err := h.registry.Get(req.SupplierID); err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	job, err := h.jobs.CreateJob(r.Context(), req.SupplierID, req.Username, req.Password)
	if err != nil {
		h.logger.Error("failed to create crawl job", "supplier", req.SupplierID, "error", err)
		h.respondError(w, http.StatusServiceUnavailable, "could not accept crawl job")
		return
	}
	h.respondJSON(w, http.StatusAccepted, job)
}

func (h *Handlers) GetCrawl(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			h.respondError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.Error("failed to get job", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	h.respondJSON(w, http.StatusOK, job)
}

func (h *Handlers) ListCrawls(w http.ResponseWriter, r *http.Request) {
	list, err := h.jobs.ListJobs(r.Context(), 50)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	h.respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.registry.IDs())
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
