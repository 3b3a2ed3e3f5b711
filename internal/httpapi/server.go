// Package httpapi serves the daemon's region queries over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adrianmross/regionsel/internal/metrics"
	"github.com/adrianmross/regionsel/pkg/config"
	ipcmsg "github.com/adrianmross/regionsel/pkg/ipc"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

// Backend answers the queries served over HTTP.
type Backend interface {
	Regions() []regions.Region
	Options(q ipcmsg.OptionsQuery) ([]regions.Option, error)
	Classify(id string) (ipcmsg.Classification, error)
	Selections() []config.Selection
}

// Server is the regionsel HTTP API server.
type Server struct {
	backend Backend
}

// NewServer creates a new API server.
func NewServer(b Backend) *Server {
	return &Server{backend: b}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/regions", s.instrument("regions", s.handleRegions))
		r.Get("/regions/{id}/group", s.instrument("classify", s.handleGroup))
		r.Get("/options", s.instrument("options", s.handleOptions))
		r.Get("/selections", s.instrument("list", s.handleSelections))
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// instrument records request metrics. Handlers report failure by returning
// the status they wrote.
func (s *Server) instrument(method string, h func(w http.ResponseWriter, r *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := h(w, r)
		metrics.RequestDuration.WithLabelValues("http", method).Observe(time.Since(start).Seconds())
		result := "ok"
		if status >= http.StatusBadRequest {
			result = "error"
		}
		metrics.RequestsTotal.WithLabelValues("http", method, result).Inc()
		klog.V(3).InfoS("HTTP request", "method", method, "path", r.URL.Path, "status", status, "requestID", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) int {
	return writeJSON(w, http.StatusOK, s.backend.Regions())
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) int {
	c, err := s.backend.Classify(chi.URLParam(r, "id"))
	if err != nil {
		return writeError(w, http.StatusNotFound, err.Error())
	}
	return writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) int {
	q := r.URL.Query()
	query := ipcmsg.OptionsQuery{
		Capability: q.Get("capability"),
		Filter:     q.Get("filter"),
		Force:      q["force"],
		Path:       q.Get("path"),
	}
	if v := q.Get("ignore_availability"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return writeError(w, http.StatusBadRequest, "ignore_availability must be a boolean")
		}
		query.IgnoreAvailability = b
	}
	opts, err := s.backend.Options(query)
	if errors.Is(err, regions.ErrInvalidFilterMode) {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return writeError(w, http.StatusInternalServerError, err.Error())
	}
	if q.Get("grouped") == "true" {
		return writeJSON(w, http.StatusOK, regions.GroupOptions(opts))
	}
	return writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleSelections(w http.ResponseWriter, r *http.Request) int {
	return writeJSON(w, http.StatusOK, s.backend.Selections())
}

// writeJSON writes a JSON response and returns status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "Encoding HTTP response")
	}
	return status
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) int {
	return writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
