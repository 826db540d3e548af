// Package server exposes the slide renderer over HTTP.
//
//	POST /generate-pdf  render a deck, respond with the PDF as an attachment
//	POST /extract-text  read back the text of an uploaded PDF, page by page
//	GET  /health        liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sliderx/slidepdf/config"
	"github.com/sliderx/slidepdf/slides"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// ServiceName is reported by the health endpoint.
	ServiceName = "SlideRx PDF Services"

	tracerName = "github.com/sliderx/slidepdf/server"
)

// Option configures a Server.
type Option func(*Server)

// WithTracerProvider sets the provider spans are recorded with. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// WithStyle overrides the slide template.
func WithStyle(style slides.Style) Option {
	return func(s *Server) {
		s.style = style
	}
}

// Server is the HTTP front end of the renderer.
type Server struct {
	cfg            config.Config
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	style          slides.Style
	handler        http.Handler
}

// New creates a Server. A nil logger discards logs.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:            cfg,
		logger:         logger,
		tracerProvider: otel.GetTracerProvider(),
		style:          slides.DefaultStyle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = s.tracerProvider.Tracer(tracerName)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-pdf", s.handleGenerate)
	mux.HandleFunc("POST /extract-text", s.handleExtract)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = otelhttp.NewHandler(
		s.withRequestID(s.withLogging(mux)),
		"sliderx",
		otelhttp.WithTracerProvider(s.tracerProvider),
	)
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx
// ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	serveErr := make(chan error, 1)
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info("stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
