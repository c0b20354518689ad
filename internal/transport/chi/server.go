// Package chi wires the eventmap HTTP APIs onto the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/domain"
	"github.com/citypulse/eventmap/internal/logger"
	"github.com/citypulse/eventmap/internal/usecase/analyze"
	heatmapuc "github.com/citypulse/eventmap/internal/usecase/heatmap"
	healthuc "github.com/citypulse/eventmap/internal/usecase/health"
	"github.com/citypulse/eventmap/internal/version"
)

// Client-facing messages. All upstream failure causes (timeout, refused
// connection, bad status, undecodable body) map to the single 503 message.
const (
	msgUpstreamUnavailable = "Service temporarily unavailable, please try again later"
	msgInvalidFormat       = "Invalid data format received from clustering service"
	msgInternal            = "Internal server error processing data"

	msgTextRequired = "Text input is required"
)

// MapServer serves the map gateway API.
type MapServer struct {
	heatmap *heatmapuc.Service
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewMapServer creates the map gateway HTTP server.
func NewMapServer(heatmap *heatmapuc.Service, health *healthuc.Service, logger *zap.Logger) *MapServer {
	return &MapServer{heatmap: heatmap, health: health, logger: logger}
}

// Register mounts the map gateway routes.
func (s *MapServer) Register(r chi.Router) {
	r.Get("/map", s.GetMap)
	r.Get("/healthz", healthHandler(s.health))
	r.Get("/metrics", metricsHandler)
}

// GetMap handles GET /map.
func (s *MapServer) GetMap(w http.ResponseWriter, r *http.Request) {
	fc, err := s.heatmap.Heatmap(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (s *MapServer) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn("clustering service unavailable", zap.Error(err))
		writeDetail(w, http.StatusServiceUnavailable, msgUpstreamUnavailable)
	case errors.Is(err, domain.ErrInvalidClusterData):
		log.Error("malformed clustering response", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, msgInvalidFormat)
	default:
		log.Error("map request failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, msgInternal)
	}
}

// NLPServer serves the text analysis API.
type NLPServer struct {
	analyze *analyze.Service
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewNLPServer creates the text analysis HTTP server.
func NewNLPServer(analyze *analyze.Service, health *healthuc.Service, logger *zap.Logger) *NLPServer {
	return &NLPServer{analyze: analyze, health: health, logger: logger}
}

// Register mounts the text analysis routes.
func (s *NLPServer) Register(r chi.Router) {
	r.Post("/analyze", s.PostAnalyze)
	r.Get("/healthz", healthHandler(s.health))
	r.Get("/metrics", metricsHandler)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// PostAnalyze handles POST /analyze. An unreadable body counts as missing
// text; pipeline failures surface their message verbatim.
func (s *NLPServer) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	res, err := s.analyze.Analyze(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyText) {
			writeErrorMessage(w, http.StatusBadRequest, msgTextRequired)
			return
		}
		logger.FromContext(r.Context()).Error("text analysis failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type healthResponse struct {
	Status  string                          `json:"status"`
	Version string                          `json:"version"`
	Checks  map[string]healthuc.CheckResult `json:"checks,omitempty"`
}

func healthHandler(svc *healthuc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := svc.Check(r.Context())
		status := http.StatusOK
		if rep.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, healthResponse{
			Status:  string(rep.Status),
			Version: version.Version,
			Checks:  rep.Checks,
		})
	}
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the map gateway error shape: {"detail": ...}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeErrorMessage writes the analysis error shape: {"error": ...}.
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
