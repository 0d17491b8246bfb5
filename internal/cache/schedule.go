package cache

import (
	"context"
	"fmt"
	"time"

	"TeatimeAuthority/storage/redis"
)

const (
	// 用于记录当日三类延迟消息是否已投放，调度器重启或重复扫描时跳过
	teatimeReminderPrefix  = "teatime:reminder:scheduled"
	teatimeOpenPrefix      = "teatime:open:scheduled"
	teatimeClosePrefix     = "teatime:close:scheduled"
	messageProcessedPrefix = "message:processed"

	scheduledTTL = 24 * time.Hour
	processedTTL = 48 * time.Hour
)

// IsTeatimeScheduled 检查指定日期的茶歇消息是否已全部投放
func IsTeatimeScheduled(ctx context.Context, date string) (bool, error) {
	for _, prefix := range []string{teatimeReminderPrefix, teatimeOpenPrefix, teatimeClosePrefix} {
		key := redis.Key(prefix, date)
		result, err := redis.Client().Exists(ctx, key).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check teatime scheduled status: %w", err)
		}
		if result == 0 {
			return false, nil
		}
	}
	return true, nil
}

// MarkReminderScheduled 标记指定日期的提醒消息已投放
func MarkReminderScheduled(ctx context.Context, date string) error {
	key := redis.Key(teatimeReminderPrefix, date)
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// MarkWindowOpenScheduled 标记指定日期的窗口开启消息已投放
func MarkWindowOpenScheduled(ctx context.Context, date string) error {
	key := redis.Key(teatimeOpenPrefix, date)
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// MarkWindowCloseScheduled 标记指定日期的窗口关闭消息已投放
func MarkWindowCloseScheduled(ctx context.Context, date string) error {
	key := redis.Key(teatimeClosePrefix, date)
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// UnmarkTeatimeScheduled 清除指定日期的已投放标记（用于重试）
func UnmarkTeatimeScheduled(ctx context.Context, date string) error {
	keys := []string{
		redis.Key(teatimeReminderPrefix, date),
		redis.Key(teatimeOpenPrefix, date),
		redis.Key(teatimeClosePrefix, date),
	}

	if err := redis.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to unmark teatime scheduled: %w", err)
	}
	return nil
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}
