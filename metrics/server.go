package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roitrack/logging"
)

// Server exposes a registry on /metrics
type Server struct {
	srv *http.Server
}

// NewServer builds the HTTP server without starting it
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Handler returns the underlying mux
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves in a goroutine
func (s *Server) Start() {
	go func() {
		logging.Infof("starting metrics server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("metrics server: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting at most timeout
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
