// Package server exposes reading-order sorting over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/polyorder/layout"
	"github.com/tsawler/polyorder/model"
	"github.com/tsawler/polyorder/predictions"
)

// maxBodySize bounds a request body
const maxBodySize = 32 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the sorting API.
type Server struct {
	logger  *log.Logger
	config  layout.ReadingOrderConfig
	router  chi.Router
	maxBody int64
}

// New builds a server using config as the default ordering configuration;
// requests may override the direction and threshold ratio.
func New(logger *log.Logger, config layout.ReadingOrderConfig) *Server {
	s := &Server{logger: logger, config: config, maxBody: maxBodySize}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/sort", s.handleSort)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// sortResponse is the body of a successful sort. Rows lists, per row, the
// indices of its polygons in the request's predictions array.
type sortResponse struct {
	Predictions []predictions.Prediction `json:"predictions"`
	Rows        [][]int                  `json:"rows,omitempty"`
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	config, err := s.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := predictions.Decode(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	polygons := doc.Polygons()
	result, err := layout.NewReadingOrderDetectorWithConfig(config).Detect(polygons)
	if err != nil {
		if isClientError(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("sort failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	resp := sortResponse{Predictions: predictions.FromPolygons(result.Polygons).Predictions}
	if wantRows, _ := strconv.ParseBool(r.URL.Query().Get("rows")); wantRows {
		resp.Rows = rowIndices(polygons, result.Rows)
	}

	s.logger.Debug("sorted", "polygons", len(polygons), "rows", result.RowCount(), "threshold", result.Threshold, "degenerate", result.Degenerate)
	writeJSON(w, http.StatusOK, resp)
}

// requestConfig applies the direction and threshold_ratio query parameters.
func (s *Server) requestConfig(r *http.Request) (layout.ReadingOrderConfig, error) {
	config := s.config
	q := r.URL.Query()

	if v := q.Get("direction"); v != "" {
		d, err := layout.ParseReadingDirection(v)
		if err != nil {
			return config, err
		}
		config.Direction = d
	}
	if v := q.Get("threshold_ratio"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return config, fmt.Errorf("invalid threshold_ratio %q", v)
		}
		config.RowConfig.ThresholdRatio = ratio
	}
	return config, nil
}

func rowIndices(input []*model.Polygon, rows []layout.Row) [][]int {
	index := make(map[*model.Polygon]int, len(input))
	for i, p := range input {
		index[p] = i
	}

	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = make([]int, len(row.Polygons))
		for j, p := range row.Polygons {
			out[i][j] = index[p]
		}
	}
	return out
}

func isClientError(err error) bool {
	return errors.Is(err, layout.ErrEmptyInput) ||
		errors.Is(err, layout.ErrInvalidThreshold) ||
		errors.Is(err, layout.ErrNilPolygon) ||
		errors.Is(err, model.ErrNoPoints) ||
		errors.Is(err, model.ErrNonFinite) ||
		errors.Is(err, model.ErrNegativeClass)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
