package project

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/httputil"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/go-chi/chi/v5"
)

const (
	MsgAllRetrieved      = "Projects retrieved successfully"
	MsgFeaturedRetrieved = "Featured projects retrieved successfully"
	MsgDetailRetrieved   = "Project details retrieved successfully"
	MsgInvalidID         = "Invalid project ID"
	MsgNotFound          = "Project not found"
	MsgInvalidMethod     = "Invalid request method"
)

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.HandleFunc("/api/projects", h.Projects)
}

// Projects dispatches on the action query parameter.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.RespondWithError(w, http.StatusBadRequest, MsgInvalidMethod)
		return
	}

	query := r.URL.Query()
	switch ParseSelector(query.Get("action")) {
	case SelectorAll:
		h.GetAllProjects(w, r)
	case SelectorDetail:
		h.GetProject(w, r, query.Get("id"))
	default:
		h.GetFeaturedProjects(w, r)
	}
}

func (h *Handler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "fetching all projects")

	projects, err := h.service.GetAllProjects(ctx)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordProjectsListViewed(ctx, SelectorAll.String())
	httputil.RespondWithList(w, MsgAllRetrieved, projects)
}

func (h *Handler) GetFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "fetching featured projects")

	projects, err := h.service.GetFeaturedProjects(ctx)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordProjectsListViewed(ctx, SelectorFeatured.String())
	httputil.RespondWithList(w, MsgFeaturedRetrieved, projects)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()

	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		h.logger.InfoContext(ctx, "invalid project id", "id", rawID)
		httputil.RespondWithError(w, http.StatusBadRequest, MsgInvalidID)
		return
	}

	h.logger.InfoContext(ctx, "fetching project by ID", "id", id)
	project, err := h.service.GetProjectByID(ctx, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordProjectViewed(ctx)
	httputil.RespondWithData(w, MsgDetailRetrieved, project)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if errors.Is(err, ErrProjectNotFound) {
		h.logger.InfoContext(ctx, "project not found")
		httputil.RespondWithError(w, http.StatusBadRequest, MsgNotFound)
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.InfoContext(ctx, "invalid input")
		httputil.RespondWithError(w, http.StatusBadRequest, MsgInvalidID)
		return
	}
	h.logger.ErrorContext(ctx, "failed to query projects", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "Database query failed: "+store.Diagnostic(err))
}
