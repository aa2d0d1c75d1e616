package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/metrics"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health           HealthService
	API              *APIHandlers
	AllowedOrigins   []string
	AllowCredentials bool
	MetricsEnabled   bool
}

// NewRouter wires the HTTP routes exposed by the recommendation API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", healthHandler(logger, deps.Health))

	if deps.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if deps.API != nil {
		mux.HandleFunc("/users", deps.API.handleUsers)
		mux.HandleFunc("/users/", deps.API.handleUser)
		mux.HandleFunc("/friendships", deps.API.handleFriendships)
		mux.HandleFunc("/similarity", deps.API.handleSimilarity)
		mux.HandleFunc("/model", deps.API.handleModel)
		mux.HandleFunc("/model/train", deps.API.handleTrain)
		mux.HandleFunc("/network", deps.API.handleNetwork)
		mux.HandleFunc("/export/profiles", deps.API.handleExportProfiles)
	}

	handler := http.Handler(loggingMiddleware(logger, mux))
	if len(deps.AllowedOrigins) > 0 {
		handler = corsMiddleware(deps.AllowedOrigins, deps.AllowCredentials)(handler)
	}
	return handler
}

// healthHandler reports "ok" unless the probe fails. A missing probe, or one
// whose mirror is not configured, is reported as graph "disabled".
func healthHandler(logger *slog.Logger, probe HealthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		payload := healthResponse{Status: "ok", Graph: "disabled"}
		status := http.StatusOK
		if probe != nil && mirrorEnabled(probe) {
			payload.Graph = "ok"
			if err := probe.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload.Status = "degraded"
				payload.Graph = "unreachable"
				payload.Error = err.Error()
			}
		}
		respondJSON(w, status, payload)
	}
}

func mirrorEnabled(probe HealthService) bool {
	if e, ok := probe.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

const healthProbeTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
	Graph  string `json:"graph"`
	Error  string `json:"error,omitempty"`
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := routeFor(r.URL.Path)
		if route != "/metrics" {
			metrics.RecordAPIRequest(r.Method, route, rec.status, elapsed)
		}
		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// routeFor collapses user IDs out of the path so metric label cardinality
// stays bounded.
func routeFor(path string) string {
	if !strings.HasPrefix(path, "/users/") {
		switch path {
		case "/healthz", "/metrics", "/users", "/friendships", "/similarity",
			"/model", "/model/train", "/network", "/export/profiles":
			return path
		default:
			return "other"
		}
	}
	rest := strings.Trim(strings.TrimPrefix(path, "/users/"), "/")
	if _, sub, ok := strings.Cut(rest, "/"); ok && sub == "recommendations" {
		return "/users/{id}/recommendations"
	}
	return "/users/{id}"
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	_, wildcard := allowed["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, known := allowed[origin]
			if origin == "" || (!known && !wildcard) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
