package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"petwelfare/internal/common/logger"
	"petwelfare/internal/config"
	"petwelfare/internal/httpapi"
	"petwelfare/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "petwelfare")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. 创建服务
	welfareService, err := service.NewWelfareService(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create welfare service", zap.Error(err))
	}
	defer welfareService.Stop()

	// 5. HTTP 路由
	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterEmergencyRoutes(httpapi.NewEmergencyHandler(welfareService.Emergencies(), log))
	router.RegisterStressRoutes(httpapi.NewStressHandler(welfareService.Stress(), log))
	server := service.NewServer(&cfg.HTTP, router, log)

	// 6. 启动调度与 HTTP 服务（在 goroutine 中）
	errChan := make(chan error, 2)
	go func() {
		if err := welfareService.Start(ctx); err != nil {
			errChan <- err
		}
	}()
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	// 7. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-errChan:
		log.Error("Service error", zap.Error(err))
	}

	cancel()
	if err := server.Stop(context.Background()); err != nil {
		log.Error("Failed to stop HTTP server", zap.Error(err))
	}

	log.Info("Welfare service stopped")
}
