package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/internal/queue"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/metrics"
	"TeatimeAuthority/pkg/push"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	if err := push.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize push client", zap.Error(err))
		logger.Logger.Info("Push delivery will be disabled")
	}

	// 注入消费者依赖的服务，所有消费者都经由这一环节推进业务状态
	queue.SetSubmissionLifecycle(service.Submission())
	queue.SetNotificationEmitter(service.Notify())

	logger.Logger.Info("Worker service starting",
		zap.String("service", "teatime-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 启动所有的消费者
	queue.StartAllConsumers(ctx)

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
