// Package chi serves the produced recommendation JSON over a read-only HTTP
// API. It consumes the output files only and never touches the CSVs or the
// fitted model.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
	logpkg "github.com/kindredhq/kindred/internal/logger"
	"github.com/kindredhq/kindred/internal/metrics"
	"github.com/kindredhq/kindred/internal/repository/output"
)

// Server exposes the viewer API over the output repository.
type Server struct {
	reader OutputReader
	logger *zap.Logger
}

// NewServer creates a viewer server.
func NewServer(reader OutputReader, logger *zap.Logger) *Server {
	return &Server{reader: reader, logger: logger}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}/recommendations", s.handleUserRecommendations)
		r.Get("/recommendations/{type}", s.handleTypeRecommendations)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.reader.LoadUsers()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"users": users})
}

func (s *Server) handleUserRecommendations(w http.ResponseWriter, r *http.Request) {
	rec, err := s.reader.LoadUser(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleTypeRecommendations(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "type")
	typ, err := parseItemType(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_type", "unknown item type: "+raw)
		return
	}
	entries, err := s.reader.LoadByType(typ)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]output.Entry{"recommendations": entries})
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	logpkg.FromContext(r.Context()).Error("viewer request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// parseItemType accepts both singular ("event") and plural ("events") forms.
// Users are not a recommendable type.
func parseItemType(raw string) (entity.Type, error) {
	typ, err := entity.Parse(strings.TrimSuffix(strings.ToLower(raw), "s"))
	if err != nil {
		return "", err
	}
	if typ == entity.User {
		return "", errors.New("users are not a recommendable type")
	}
	return typ, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
