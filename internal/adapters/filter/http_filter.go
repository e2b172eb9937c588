package filter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/email-signature-parser/internal/adapters/store"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/htmltext"
	"go.uber.org/zap"
)

const maxRequestBytes = 30 * 1024 * 1024

// HTTPFilter serves the signature service over a JSON API
type HTTPFilter struct {
	service    *core.SignatureService
	logger     *zap.Logger
	listenAddr string
	server     *http.Server
}

// parseRequest is the body of the text and html parse endpoints
type parseRequest struct {
	From string `json:"from"`
	Body string `json:"body"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPFilter creates a new HTTP API front end
func NewHTTPFilter(service *core.SignatureService, logger *zap.Logger, listenAddr string) *HTTPFilter {
	return &HTTPFilter{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Router returns the API routes
func (f *HTTPFilter) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", f.health)
	r.Post("/parse/text", f.parseText)
	r.Post("/parse/html", f.parseHTML)
	r.Post("/parse/eml", f.parseEML)
	r.Get("/contacts/{email}", f.contact)

	return r
}

// Start starts the HTTP server
func (f *HTTPFilter) Start() error {
	f.server = &http.Server{
		Addr:         f.listenAddr,
		Handler:      f.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	f.logger.Info("HTTP API starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down
func (f *HTTPFilter) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// ProcessEmail parses the signature of an email
func (f *HTTPFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ParsedSignature, error) {
	return f.service.ParseEmail(ctx, email)
}

func (f *HTTPFilter) health(w http.ResponseWriter, r *http.Request) {
	f.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (f *HTTPFilter) parseText(w http.ResponseWriter, r *http.Request) {
	req, ok := f.decodeParseRequest(w, r)
	if !ok {
		return
	}
	sig, err := f.service.ParseText(r.Context(), req.From, req.Body)
	f.respond(w, sig, err)
}

func (f *HTTPFilter) parseHTML(w http.ResponseWriter, r *http.Request) {
	req, ok := f.decodeParseRequest(w, r)
	if !ok {
		return
	}
	sig, err := f.service.ParseHTML(r.Context(), req.From, req.Body)
	f.respond(w, sig, err)
}

func (f *HTTPFilter) parseEML(w http.ResponseWriter, r *http.Request) {
	sig, err := f.service.ParseMessage(r.Context(), io.LimitReader(r.Body, maxRequestBytes))
	f.respond(w, sig, err)
}

func (f *HTTPFilter) contact(w http.ResponseWriter, r *http.Request) {
	contact, err := f.service.Lookup(r.Context(), chi.URLParam(r, "email"))
	f.respond(w, contact, err)
}

func (f *HTTPFilter) decodeParseRequest(w http.ResponseWriter, r *http.Request) (*parseRequest, bool) {
	var req parseRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		f.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return nil, false
	}
	return &req, true
}

// respond writes v, or the error mapped to its status code
func (f *HTTPFilter) respond(w http.ResponseWriter, v interface{}, err error) {
	if err == nil {
		f.writeJSON(w, http.StatusOK, v)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		f.logger.Error("Request failed", zap.Error(err))
	}
	f.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrAutomatedSender), errors.Is(err, core.ErrMeetingInvite):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, htmltext.ErrNoHTMLContent):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrExpired):
		return http.StatusGone
	case errors.Is(err, core.ErrStoreDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (f *HTTPFilter) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.logger.Error("Failed to encode response", zap.Error(err))
	}
}
