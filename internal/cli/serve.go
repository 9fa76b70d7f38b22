package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fractile/fractile/pkg/cache"
	apperrors "github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/io"
	"github.com/fractile/fractile/pkg/pipeline"
	"github.com/fractile/fractile/pkg/render"
)

// serveCommand creates the serve command exposing rendering over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisURL string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pattern rendering over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /render   render a pattern record to an image
  GET  /healthz  liveness probe

The render request body carries the persisted pattern form plus parameters:

  {"pattern": {"pixels": [[...], [...]]}, "iterations": 9, "decay": 0.5, "format": "png"}

Rendered artifacts are cached; point --redis at a Redis instance to share the
cache between multiple server instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("redis") {
				redisURL = cfg.Serve.Redis
			}
			return c.runServe(cmd.Context(), addr, redisURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for a shared artifact cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool) error {
	store, err := c.serveCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}

	s := &server{
		logger: c.Logger,
		runner: pipeline.NewRunner(store, c.Logger),
	}
	defer s.runner.Close()

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache picks the cache backend: redis when configured, the XDG file
// cache otherwise, null when caching is off or the backend cannot be set up.
func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis artifact cache")
		return store, nil
	}
	return newCache(false), nil
}

// server holds the HTTP handler state.
type server struct {
	logger *log.Logger
	runner *pipeline.Runner
}

// renderRequest is the POST /render body.
type renderRequest struct {
	Pattern    json.RawMessage `json:"pattern"`
	Iterations int             `json:"iterations,omitempty"`
	Decay      *float64        `json:"decay,omitempty"`
	Format     string          `json:"format,omitempty"`
}

// contentTypes maps output formats to MIME types.
var contentTypes = map[string]string{
	render.FormatPNG:  "image/png",
	render.FormatBMP:  "image/bmp",
	render.FormatTIFF: "image/tiff",
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Pattern) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "missing pattern")
		return
	}

	p, err := io.ReadJSON(bytes.NewReader(req.Pattern))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidPatternFile), err.Error())
		return
	}

	opts := pipeline.NewOptions()
	opts.Pattern = &p
	if req.Iterations != 0 {
		opts.Iterations = req.Iterations
	}
	if req.Decay != nil {
		opts.Decay = *req.Decay
	}
	if req.Format != "" {
		opts.Formats = []string{req.Format}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.GetCode(err)), apperrors.UserMessage(err))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, string(apperrors.GetCode(err)), apperrors.UserMessage(err))
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Pattern-Hash", result.PatternHash)
	_, _ = w.Write(result.Artifacts[format])
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "error": msg})
}

// requestIDKey is the context key for the per-request UUID.
const requestIDKey ctxKey = 1

// requestID tags every request with a UUID, echoed in the X-Request-ID
// header and available to handlers via the context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// logRequests logs one line per request with status and duration.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
