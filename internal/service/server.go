package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"petwelfare/internal/config"

	"go.uber.org/zap"
)

// Server 对外 HTTP 服务（提醒确认、压力记录）
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer 按 HTTP 配置创建服务，读写超时来自配置
func NewServer(cfg *config.HTTPConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Start 阻塞监听；Stop 触发的关闭不视为错误
func (s *Server) Start() error {
	s.logger.Info("Starting petwelfare HTTP server",
		zap.String("addr", s.httpServer.Addr),
		zap.Duration("read_timeout", s.httpServer.ReadTimeout),
		zap.Duration("write_timeout", s.httpServer.WriteTimeout),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 在 shutdownTimeout 内等待进行中的请求结束
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping petwelfare HTTP server", zap.Duration("timeout", s.shutdownTimeout))
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
