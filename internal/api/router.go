// Package api exposes the tracked roster and alert history over REST.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/store"
)

// Server holds the router's dependencies.
type Server struct {
	store store.Store
}

// NewServer creates an API server over the given store.
func NewServer(st store.Store) *Server {
	return &Server{store: st}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/employees", s.handleListEmployees)
		r.Get("/employees/{id}", s.handleGetEmployee)
		r.Get("/employees/{id}/departures", s.handleListDepartures)
		r.Get("/alerts", s.handleListAlerts)
		r.Get("/alerts/{id}", s.handleGetAlert)
		r.Post("/alerts/{id}/notified", s.handleMarkNotified)
		r.Get("/stats", s.handleStats)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.EmployeeFilter{
		Tier:   model.Tier(q.Get("tier")),
		Org:    q.Get("org"),
		Limit:  intParam(q.Get("limit")),
		Offset: intParam(q.Get("offset")),
	}
	if q.Get("due") == "true" {
		filter.DueBefore = time.Now().UTC()
	}

	emps, err := s.store.ListEmployees(r.Context(), filter)
	if err != nil {
		zap.L().Error("list employees failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "list employees failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"employees": emps,
		"count":     len(emps),
	})
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := s.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("get employee failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "get employee failed")
		return
	}
	if emp == nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

func (s *Server) handleListDepartures(w http.ResponseWriter, r *http.Request) {
	departures, err := s.store.ListDepartures(r.Context(), store.DepartureFilter{
		PersonID: chi.URLParam(r, "id"),
	})
	if err != nil {
		zap.L().Error("list departures failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "list departures failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"departures": departures,
		"count":      len(departures),
	})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.AlertFilter{
		Level:          model.AlertLevel(q.Get("level")),
		UnnotifiedOnly: q.Get("unnotified") == "true",
		Limit:          intParam(q.Get("limit")),
		Offset:         intParam(q.Get("offset")),
	}
	if days := intParam(q.Get("days")); days > 0 {
		filter.Since = time.Now().AddDate(0, 0, -days)
	}

	alerts, err := s.store.ListAlerts(r.Context(), filter)
	if err != nil {
		zap.L().Error("list alerts failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "list alerts failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.GetAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("get alert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "get alert failed")
		return
	}
	if a == nil {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleMarkNotified(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.MarkAlertNotified(r.Context(), id); err != nil {
		a, getErr := s.store.GetAlert(r.Context(), id)
		if getErr == nil && a == nil {
			respondError(w, http.StatusNotFound, "alert not found")
			return
		}
		zap.L().Error("mark notified failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "mark notified failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "notified"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountEmployeesByTier(r.Context())
	if err != nil {
		zap.L().Error("stats failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "stats failed")
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"by_tier":  counts,
		"reported": time.Now().UTC(),
	})
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
