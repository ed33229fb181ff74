package contact

import (
	"bytes"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/httputil"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	MsgInvalidMethod = "Invalid request method. Only POST is allowed."
	MsgSubmitted     = "Thank you for your message! We will get back to you soon."
	MsgPrepareFailed = "Database error: Unable to prepare statement."
	MsgSendFailed    = "Error: Unable to send message. Please try again later."
	MsgListRetrieved = "Contact messages retrieved successfully"
	maxFormBodyBytes = 64 << 10
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
	// Any method reaches Submit so that non-POST requests get the plain text rejection.
	router.HandleFunc("/contact", h.Submit)
	router.Get("/admin/contacts", h.AdminList)
	router.Get("/api/admin/contacts", h.AdminListJSON)
}

// Submit handles the form-encoded contact form. Every outcome other than a
// wrong method is answered with 200 and a plain text sentence.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		httputil.RespondWithText(w, http.StatusBadRequest, MsgInvalidMethod)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodyBytes)
	if err := parseForm(r); err != nil {
		h.logger.InfoContext(ctx, "failed to parse contact form", "error", err)
	}

	msg, err := h.service.Submit(ctx, validation.InputFromValues(r.PostForm))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordContactSubmitted(ctx)
	h.logger.InfoContext(ctx, "contact message received", "id", msg.ID)
	httputil.RespondWithText(w, http.StatusOK, MsgSubmitted)
}

// AdminList renders every stored message as an HTML table, newest first.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "fetching contact messages")

	page := adminPage{}
	status := http.StatusOK

	msgs, err := h.service.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list contact messages", "error", err)
		page.Error = store.Diagnostic(err)
		status = http.StatusInternalServerError
	} else {
		page.Messages = msgs
		h.metrics.RecordAdminContactsViewed(ctx, "html")
	}

	var buf bytes.Buffer
	if err := adminView.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "failed to render contact messages", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// AdminListJSON returns the same rows as AdminList inside the JSON envelope.
func (h *Handler) AdminListJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "fetching contact messages")

	msgs, err := h.service.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list contact messages", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Database query failed: "+store.Diagnostic(err))
		return
	}

	h.metrics.RecordAdminContactsViewed(ctx, "json")
	httputil.RespondWithList(w, MsgListRetrieved, msgs)
}

// parseForm fills r.PostForm from either urlencoded or multipart bodies.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormBodyBytes)
	}
	return r.ParseForm()
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var violations validation.Errors
	if errors.As(err, &violations) {
		h.logger.InfoContext(ctx, "contact form rejected", "violations", len(violations))
		h.metrics.RecordContactRejected(ctx, "validation")
		httputil.RespondWithText(w, http.StatusOK, violations.Error())
		return
	}

	h.metrics.RecordContactRejected(ctx, "storage")
	if store.IsOp(err, store.OpConnect) || store.IsOp(err, store.OpPrepare) {
		h.logger.ErrorContext(ctx, "failed to prepare contact insert", "error", err)
		httputil.RespondWithText(w, http.StatusOK, MsgPrepareFailed)
		return
	}
	h.logger.ErrorContext(ctx, "failed to store contact message", "error", err)
	httputil.RespondWithText(w, http.StatusOK, MsgSendFailed)
}
