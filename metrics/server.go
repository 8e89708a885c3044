// Package metrics define telemetry primitives to use across components. it uses the prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/metrics/public"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics for the default registry and /public for the public one.
type Server struct {
	logger *zap.Logger
	srv    *http.Server
	ln     net.Listener
}

// NewServer listens on addr. Use ":0" to pick a free port.
func NewServer(logger *zap.Logger, addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	mux.Handle("/public", promhttp.HandlerFor(public.Registry, promhttp.HandlerOpts{}))
	return &Server{
		logger: logger,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
	}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(s.ln)
	}()
	s.logger.Info("serving metrics", zap.String("addr", s.Addr()))
	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Warn("metrics server stopped with error", zap.Error(err))
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}
