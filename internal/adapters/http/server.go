package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

// ServerConfig - параметры HTTP сервера gateway.
type ServerConfig struct {
	Host string
	// Port 0 - выбрать свободный порт
	Port int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultServerConfig - конфигурация по умолчанию.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Logger:          slog.Default(),
	}
}

// Address - host:port для net.Listen.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server обслуживает router и умеет останавливаться с дренированием запросов.
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	log        *slog.Logger

	mu    sync.Mutex
	bound net.Addr
}

// NewServer создаёт сервер; nil config заменяется DefaultServerConfig.
func NewServer(config *ServerConfig, router *gin.Engine) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	log := config.Logger.With(slog.String("component", "http"))

	return &Server{
		config: config,
		log:    log,
		httpServer: &http.Server{
			Addr:         config.Address(),
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Start слушает адрес из конфигурации и блокируется до Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.bound = ln.Addr()
	s.mu.Unlock()

	s.log.Info("HTTP server listening", slog.String("address", ln.Addr().String()))

	err = s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr - фактический адрес после Start, nil до него.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Shutdown ждёт завершения активных запросов, но не дольше ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	started := time.Now()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("HTTP server shutdown failed", logger.Err(err))
		return err
	}
	s.log.Info("HTTP server stopped", slog.Duration("took", time.Since(started)))
	return nil
}

// Run обслуживает запросы до SIGINT/SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunWithContext(ctx)
}

// RunWithContext обслуживает запросы, пока ctx не отменён.
func (s *Server) RunWithContext(ctx context.Context) error {
	served := make(chan error, 1)
	go func() { served <- s.Start() }()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
		s.log.Info("Shutdown requested", slog.String("cause", context.Cause(ctx).Error()))
	}

	if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return <-served
}

// Handler - корневой handler для httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
