package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"proofsy/internal/evidence"
	"proofsy/internal/ledger/models"
	"proofsy/internal/ledger/service"
	"proofsy/internal/media"
	dErrors "proofsy/pkg/domain-errors"
	"proofsy/pkg/platform/httputil"
	"proofsy/pkg/requestcontext"
)

// IdempotencyKeyHeader carries the caller-chosen key for POST /events.
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	mediaField      = "media"
	multipartMemory = 32 << 20
)

// Service is the ledger intake and read side.
type Service interface {
	Submit(ctx context.Context, event models.Event, idempotencyKey string) (*models.LedgerRecord, error)
	SubmitWithEvidence(ctx context.Context, event models.Event, idempotencyKey, uploaderID string, files []evidence.File) (*service.EvidenceSubmission, error)
	Timeline(ctx context.Context, bookingID string) (*models.Timeline, error)
	LinkMedia(ctx context.Context, bookingID, uploaderID string, files []evidence.File) (*evidence.Result, error)
	Media(ctx context.Context, bookingID string) (*models.MediaListing, error)
}

// MediaStore holds uploaded bytes. The handler discards the bytes of any
// file whose commit failed.
type MediaStore interface {
	Save(ctx context.Context, fileName string, data []byte) (*media.Stored, error)
	Discard(ctx context.Context, id string) error
}

// Config carries the values reported by /health and the upload limits.
// MaxFiles bounds the commits behind one request, which the server's write
// timeout is sized for.
type Config struct {
	CaptureBaseURL string
	CaptureLive    bool
	MaxUploadBytes int64
	MaxFiles       int
}

// Handler serves the ledger HTTP API.
type Handler struct {
	service Service
	media   MediaStore
	cfg     Config
	logger  *slog.Logger
}

// New creates a Handler.
func New(svc Service, mediaStore MediaStore, cfg Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, media: mediaStore, cfg: cfg, logger: logger}
}

// Register mounts the routes at the root and again under /api.
func (h *Handler) Register(r chi.Router) {
	h.routes(r)
	r.Route("/api", h.routes)
}

func (h *Handler) routes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/events", h.handleSubmitEvent)
	r.Get("/events", h.handleTimeline)
	r.Post("/events/evidence", h.handleSubmitWithEvidence)
	r.Post("/media", h.handleUploadMedia)
	r.Get("/media", h.handleMedia)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "TEST"
	if h.cfg.CaptureLive {
		mode = "LIVE"
	}
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Mode:      mode,
		Timestamp: requestcontext.Now(r.Context()),
		Capture: captureStatus{
			BaseURL:      h.cfg.CaptureBaseURL,
			IsConfigured: h.cfg.CaptureLive,
		},
	})
}

func (h *Handler) handleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.WarnContext(ctx, "invalid event body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid event body"))
		return
	}

	record, err := h.service.Submit(ctx, event, key)
	if err != nil {
		h.writeFailure(ctx, w, "event submission failed", err, "idempotency_key", key)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, submitResponse{
		AssetNID: record.Receipt.AssetNID,
		Receipt:  record.Receipt,
	})
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookingID := r.URL.Query().Get("bookingId")
	timeline, err := h.service.Timeline(ctx, bookingID)
	if err != nil {
		h.writeFailure(ctx, w, "timeline failed", err, "booking_id", bookingID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, timeline)
}

func (h *Handler) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.parseMultipart(w, r); err != nil {
		h.writeFailure(ctx, w, "invalid media upload", err)
		return
	}
	bookingID := strings.TrimSpace(r.FormValue("bookingId"))
	uploadedBy := strings.TrimSpace(r.FormValue("uploadedBy"))
	switch {
	case bookingID == "":
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "bookingId is required"))
		return
	case uploadedBy == "":
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "uploadedBy is required"))
		return
	}

	files, stored, err := h.saveUploads(ctx, r.MultipartForm, true)
	if err != nil {
		h.writeFailure(ctx, w, "media upload failed", err, "booking_id", bookingID)
		return
	}

	result, err := h.service.LinkMedia(ctx, bookingID, uploadedBy, files)
	if result != nil {
		h.discardFailed(ctx, stored, result)
	} else {
		h.discardAll(ctx, stored)
	}
	if err != nil {
		h.writeFailure(ctx, w, "media commit failed", err, "booking_id", bookingID)
		return
	}

	resp := mediaResponse{
		Evidence:  result.Evidence,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
	if result.Outcome() == evidence.ProceedWithWarning {
		resp.Warning = partialWarning(result, len(files))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookingID := r.URL.Query().Get("bookingId")
	listing, err := h.service.Media(ctx, bookingID)
	if err != nil {
		h.writeFailure(ctx, w, "media listing failed", err, "booking_id", bookingID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleSubmitWithEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if err := h.parseMultipart(w, r); err != nil {
		h.writeFailure(ctx, w, "invalid evidence submission", err)
		return
	}

	var event models.Event
	if err := json.Unmarshal([]byte(r.FormValue("event")), &event); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event field must hold the event JSON"))
		return
	}
	uploadedBy := strings.TrimSpace(r.FormValue("uploadedBy"))

	files, stored, err := h.saveUploads(ctx, r.MultipartForm, false)
	if err != nil {
		h.writeFailure(ctx, w, "evidence upload failed", err, "idempotency_key", key)
		return
	}

	sub, err := h.service.SubmitWithEvidence(ctx, event, key, uploadedBy, files)
	switch {
	case sub != nil && sub.Evidence != nil:
		h.discardFailed(ctx, stored, sub.Evidence)
	case err != nil:
		// rejected before any photo was committed
		h.discardAll(ctx, stored)
	}
	if err != nil {
		h.writeFailure(ctx, w, "evidence submission failed", err, "idempotency_key", key)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, evidenceSubmitResponse{
		AssetNID: sub.Record.Receipt.AssetNID,
		Receipt:  sub.Record.Receipt,
		Evidence: sub.Evidence.Evidence,
		Warning:  sub.Warning,
	})
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.New(dErrors.CodeBadRequest, "upload exceeds the size limit")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart form")
	}
	return nil
}

// saveUploads writes every media file through the media store. Nothing is
// saved unless all files pass the type check. A failure part way through
// discards what was already written.
func (h *Handler) saveUploads(ctx context.Context, form *multipart.Form, requireOne bool) ([]evidence.File, []*media.Stored, error) {
	headers := form.File[mediaField]
	if len(headers) == 0 && requireOne {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "no file uploaded")
	}
	if h.cfg.MaxFiles > 0 && len(headers) > h.cfg.MaxFiles {
		return nil, nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d files per upload", h.cfg.MaxFiles))
	}
	for _, fh := range headers {
		if !media.Allowed(fh.Filename, fh.Header.Get("Content-Type")) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "only image and video files are allowed: "+fh.Filename)
		}
	}

	files := make([]evidence.File, 0, len(headers))
	stored := make([]*media.Stored, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			h.discardAll(ctx, stored)
			return nil, nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable upload "+fh.Filename)
		}
		s, err := h.media.Save(ctx, fh.Filename, data)
		if err != nil {
			h.discardAll(ctx, stored)
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
		}
		stored = append(stored, s)
		files = append(files, evidence.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			URL:         s.URL,
			Data:        data,
		})
	}
	return files, stored, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) discardFailed(ctx context.Context, stored []*media.Stored, result *evidence.Result) {
	for _, f := range result.Failures {
		if f.Index < len(stored) {
			h.discard(ctx, stored[f.Index])
		}
	}
}

func (h *Handler) discardAll(ctx context.Context, stored []*media.Stored) {
	for _, s := range stored {
		h.discard(ctx, s)
	}
}

func (h *Handler) discard(ctx context.Context, s *media.Stored) {
	if err := h.media.Discard(ctx, s.ID); err != nil {
		h.logger.WarnContext(ctx, "failed to discard upload",
			"media_id", s.ID,
			"error", err,
		)
	}
}

// writeFailure logs at a level matching the status and writes the error.
func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	status := httputil.StatusFor(dErrors.CodeOf(err))
	args := append([]any{
		"request_id", requestcontext.RequestID(ctx),
		"status", status,
		"error", err,
	}, attrs...)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
