package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/ethereum-optimism/infra/op-referee/metrics"
)

const readHeaderTimeout = 10 * time.Second

// Service exposes /metrics and /healthz on a single listener
type Service struct {
	log      log.Logger
	addr     string
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

func New(log log.Logger, host string, port int) *Service {
	return &Service{
		log:  log,
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
	}
}

// Handler returns the routes served by the service
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", &HealthzHandler{log: s.log})
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	return c.Handler(mux)
}

// Start binds the listener and serves in the background.
// Bind errors are returned; serve errors after that are logged and counted.
func (s *Service) Start(ctx context.Context) error {
	if s.server != nil {
		return errors.New("service already started")
	}
	s.log.Info("service starting", "addr", s.addr)

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		metrics.RecordErrorDetails("service.listen", err)
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error serving metrics", "err", err)
			metrics.RecordErrorDetails("service.serve", err)
		}
	}()

	s.log.Info("service started", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Service) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.log.Info("service shutting down")
	err := s.server.Shutdown(ctx)
	<-s.done
	s.log.Info("service stopped")
	return err
}
