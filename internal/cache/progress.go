package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"TeatimeAuthority/storage/redis"
)

const (
	progressPrefix = "verify:progress"

	progressTTL = 10 * time.Minute
)

// SetVerificationProgress 写入识别进度（0.0 - 1.0），供轮询接口读取
func SetVerificationProgress(ctx context.Context, submissionID int64, progress float64) error {
	key := redis.Key(progressPrefix, fmt.Sprintf("%d", submissionID))
	return redis.Client().Set(ctx, key, fmt.Sprintf("%.4f", progress), progressTTL).Err()
}

// GetVerificationProgress 读取识别进度，无记录时返回 0
func GetVerificationProgress(ctx context.Context, submissionID int64) (float64, error) {
	key := redis.Key(progressPrefix, fmt.Sprintf("%d", submissionID))
	progress, err := redis.Client().Get(ctx, key).Float64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get verification progress: %w", err)
	}
	return progress, nil
}

// ClearVerificationProgress 清除识别进度（识别结束后调用）
func ClearVerificationProgress(ctx context.Context, submissionID int64) error {
	key := redis.Key(progressPrefix, fmt.Sprintf("%d", submissionID))
	return redis.Client().Del(ctx, key).Err()
}
