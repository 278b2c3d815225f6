package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type Server struct {
	log  *logger.Logger
	http *http.Server
}

func NewServer(address string, log *logger.Logger, cfg RouterConfig) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Log == nil {
		cfg.Log = log
	}
	return &Server{
		log: log.With("component", "HTTPServer"),
		http: &http.Server{
			Addr:              address,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is canceled, then drains in-flight requests for up to drain.
func (s *Server) Run(ctx context.Context, drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
