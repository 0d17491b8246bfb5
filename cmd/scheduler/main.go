package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/internal/schedule"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "teatime-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runDailyTeatimeLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runDailyTeatimeLoop 每天固定时间执行一次茶歇调度
// 当前实现：每天本地时间 00:05 触发一次，调度当日的提醒、开窗、关窗消息
func runDailyTeatimeLoop(ctx context.Context) {
	s := schedule.GetScheduler()

	// 进程可能在当天任意时刻启动，先补一次当日调度
	startCtx, startCancel := context.WithTimeout(ctx, 5*time.Minute)
	if err := s.ScheduleDailyTeatime(startCtx); err != nil {
		logger.Logger.Error("Initial teatime scheduler run failed", zap.Error(err))
	}
	startCancel()

	// 在 development 环境下，为了方便本地调试，改为每 1 分钟执行一次
	if config.Cfg.Environment == "development" {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Teatime scheduler running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				if err := s.ScheduleDailyTeatime(runCtx); err != nil {
					logger.Logger.Error("Teatime scheduler run failed (development interval)", zap.Error(err))
				}
				cancel()
			}
		}
	}

	for {
		// 计算下一次运行时间（今天/明天的 00:05）
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 5, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next daily teatime run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := s.ScheduleDailyTeatime(runCtx); err != nil {
				logger.Logger.Error("Teatime scheduler run failed", zap.Error(err))
			}
			cancel()
		}
	}
}
