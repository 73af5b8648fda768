package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fbts/job-offer/internal/config"
	"github.com/fbts/job-offer/internal/offer"
	"github.com/fbts/job-offer/internal/salary"
	"github.com/fbts/job-offer/internal/structure"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/output"
	"github.com/fbts/job-offer/pkg/words"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type requestIDKey struct{}

// RequestID returns the request id assigned by the handler, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Settings tunes the handler.
type Settings struct {
	MaxUploadSize      int64
	RateLimitPerMinute int
	Version            string
}

type handler struct {
	logger        *zap.Logger
	structures    structure.Provider
	service       *offer.Service
	validate      *validator.Validate
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler serving the job offer API.
func NewHandler(logger *zap.Logger, structures structure.Provider, settings Settings) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if structures == nil {
		structures = structure.NewCatalog(nil)
	}
	if settings.MaxUploadSize <= 0 {
		settings.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	if settings.RateLimitPerMinute <= 0 {
		settings.RateLimitPerMinute = constants.DefaultRateLimitPerMinute
	}

	trimmedVersion := strings.TrimSpace(settings.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		structures:    structures,
		service:       offer.NewService(logger, structures),
		validate:      validator.New(),
		maxUploadSize: settings.MaxUploadSize,
		version:       trimmedVersion,
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(h.requestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(httprate.Limit(settings.RateLimitPerMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": http.StatusText(http.StatusTooManyRequests)})
		}),
	))

	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/structures/{name}", h.handleStructure)
		r.Delete("/structures/{name}", h.handleInvalidateStructure)
		r.Post("/offers/recompute", h.handleRecompute)
		r.Post("/offers/prepare", h.handlePrepare)
		r.Post("/offers/export", h.handleExport)
		r.Post("/offers/batch", h.handleBatch)
		r.Post("/words", h.handleWords)
	})
	return r
}

func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("request served",
			zap.String("op", "server.logRequests"),
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type warningResponse struct {
	Table   salary.Table `json:"table"`
	Index   int          `json:"index"`
	Label   string       `json:"label"`
	Formula string       `json:"formula"`
	Message string       `json:"message"`
	Error   string       `json:"error"`
}

type recomputeResponse struct {
	Passes     int               `json:"passes"`
	Computed   int               `json:"computed"`
	Warnings   []warningResponse `json:"warnings"`
	Unresolved []salary.RowRef   `json:"unresolved"`
}

type offerResponse struct {
	Offer      offer.JobOffer    `json:"offer"`
	Recompute  recomputeResponse `json:"recompute"`
	Summary    offer.Summary     `json:"summary"`
	CTCInWords string            `json:"ctc_in_words"`
	Duration   string            `json:"duration"`
}

func newOfferResponse(p *offer.Prepared, elapsed time.Duration) offerResponse {
	warnings := make([]warningResponse, 0, len(p.Recompute.Warnings))
	for _, w := range p.Recompute.Warnings {
		wr := warningResponse{
			Table:   w.Table,
			Index:   w.Index,
			Label:   w.Label,
			Formula: w.Formula,
			Message: w.Message(),
		}
		if w.Err != nil {
			wr.Error = w.Err.Error()
		}
		warnings = append(warnings, wr)
	}
	unresolved := p.Recompute.Unresolved
	if unresolved == nil {
		unresolved = []salary.RowRef{}
	}
	return offerResponse{
		Offer: p.Offer,
		Recompute: recomputeResponse{
			Passes:     p.Recompute.Passes,
			Computed:   p.Recompute.Computed,
			Warnings:   warnings,
			Unresolved: unresolved,
		},
		Summary:    p.Summary,
		CTCInWords: p.CTCInWords,
		Duration:   elapsed.String(),
	}
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleStructure(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStructure"
	s, err := h.structures.Lookup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// handleInvalidateStructure drops a cached structure. Without a cache in
// front of the structure source there is nothing to drop.
func (h *handler) handleInvalidateStructure(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvalidateStructure"
	invalidator, ok := h.structures.(structure.Invalidator)
	if !ok {
		h.respondErrorWithOp(w, r, http.StatusNotImplemented, "salary structures are not cached", op)
		return
	}
	if err := invalidator.Invalidate(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecompute"
	start := time.Now()

	var o offer.JobOffer
	if !h.decode(w, r, &o, op) {
		return
	}
	h.prepare(w, r, o, offer.ModeNone, start, op)
}

type prepareRequest struct {
	Offer *offer.JobOffer `json:"offer" validate:"required"`
	Mode  string          `json:"mode" validate:"omitempty,oneof=none overwrite append"`
}

func (h *handler) handlePrepare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePrepare"
	start := time.Now()

	var req prepareRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	mode := offer.Mode(req.Mode)
	if mode == "" {
		mode = offer.ModeOverwrite
	}
	h.prepare(w, r, *req.Offer, mode, start, op)
}

func (h *handler) prepare(w http.ResponseWriter, r *http.Request, o offer.JobOffer, mode offer.Mode, start time.Time, op string) {
	p, err := h.service.Prepare(r.Context(), o, offer.Options{Mode: mode})
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("job offer prepared",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.String("offer", p.Offer.Title()),
		zap.Int("computed", p.Recompute.Computed),
		zap.Int("warnings", len(p.Recompute.Warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, newOfferResponse(p, elapsed))
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	var o offer.JobOffer
	if !h.decode(w, r, &o, op) {
		return
	}
	p, err := h.service.Prepare(r.Context(), o, offer.Options{})
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := output.WriteXLSX(&buf, []*offer.Prepared{p}); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(p.Offer.Title())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func exportFileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, title)
	return name + ".xlsx"
}

type batchResponse struct {
	Offers   []offerResponse `json:"offers"`
	Warnings []string        `json:"warnings"`
	CSV      string          `json:"csv"`
	Duration string          `json:"duration"`
}

// handleBatch prepares every offer of an uploaded job-offer configuration.
// Structures defined in the upload take precedence over the server's.
func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file", zap.String("op", op), zap.Error(closeErr))
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()
	if warnings == nil {
		warnings = []string{}
	}

	svc := h.service
	if len(cfg.Structures) > 0 {
		svc = offer.NewService(h.logger, layeredProvider{structure.NewCatalog(cfg.Structures), h.structures})
	}
	prepared, err := svc.PrepareAll(r.Context(), cfg.Offers, offer.Options{})
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, prepared); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := batchResponse{
		Offers:   make([]offerResponse, 0, len(prepared)),
		Warnings: warnings,
		CSV:      csvBuf.String(),
		Duration: elapsed.String(),
	}
	for _, p := range prepared {
		response.Offers = append(response.Offers, newOfferResponse(p, elapsed))
	}

	h.logger.Info("job offers prepared",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("offers", len(prepared)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, response)
}

// layeredProvider asks each provider in turn, moving on only when a
// structure is not found.
type layeredProvider []structure.Provider

func (l layeredProvider) Lookup(ctx context.Context, name string) (*structure.Structure, error) {
	err := fmt.Errorf("%w: %s", structure.ErrNotFound, name)
	for _, p := range l {
		var s *structure.Structure
		s, err = p.Lookup(ctx, name)
		if err == nil || !errors.Is(err, structure.ErrNotFound) {
			return s, err
		}
	}
	return nil, err
}

type wordsRequest struct {
	Amount   *float64 `json:"amount" validate:"required,gte=-1e15,lte=1e15"`
	Currency string   `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (h *handler) handleWords(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWords"

	var req wordsRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	opts := words.OptionsFor(req.Currency)
	spelled, err := words.Money(*req.Amount, opts)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"words":    spelled,
		"currency": opts.Currency,
	})
}

// decode reads a size-limited JSON body into v and validates it, writing
// the error response itself when that fails.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), op)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, structure.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, structure.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, structure.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, offer.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, offer.ErrNoProvider):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("job offer request failed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
