package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/internal/config"
	"github.com/rotaplan/shift-scheduler/pkg/core/scheduler"
	"github.com/rotaplan/shift-scheduler/pkg/core/services"
)

// Store is the persistence surface the API needs: the generate and
// validate services' stores combined
type Store interface {
	services.GenerateScheduleStore
	services.ValidateScheduleStore
}

// Server exposes the schedule generator and the on-demand validator over
// HTTP. Domain violations are a successful response body, never an HTTP
// error; only input and persistence failures map to error status codes.
type Server struct {
	store  Store
	cfg    *config.Config
	logger *zap.Logger
	router chi.Router
}

// NewServer builds the HTTP server with its routes
func NewServer(store Store, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}

	router := chi.NewRouter()
	router.Use(s.requestLogger)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/schedule/generate", s.handleGenerate)
		r.Post("/schedule/validate", s.handleValidate)
		r.Get("/schedule/{year}/{month}", s.handleGetSchedule)
	})

	s.router = router
	return s
}

// ListenAndServe runs the server until the listener fails
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

type monthRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type generateResponse struct {
	RunID      string           `json:"runId"`
	Month      int              `json:"month"`
	Year       int              `json:"year"`
	EntryCount int              `json:"entryCount"`
	Report     scheduler.Report `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := services.GenerateSchedule(r.Context(), s.store, s.cfg, s.logger, req.Month, req.Year, false)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrDayOffShiftMissing) || errors.Is(err, services.ErrInvalidMonth) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		RunID:      result.RunID,
		Month:      result.Month,
		Year:       result.Year,
		EntryCount: result.EntryCount,
		Report:     result.Report,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := services.ValidateSchedule(r.Context(), s.store, s.logger, req.Month, req.Year)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidMonth) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 0 || month > 11 {
		s.writeError(w, http.StatusBadRequest, "invalid month, expected 0-11")
		return
	}

	entries, err := s.store.GetScheduleEntries(r.Context(), month, year)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// requestLogger logs each request with its duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
