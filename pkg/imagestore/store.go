package imagestore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/pkg/logger"
)

// Store 不透明的图片存储。业务层只持有 key 和公开 URL，从不读取字节。
type Store interface {
	// Save 存入图片字节，返回不透明 key
	Save(ctx context.Context, data []byte, contentType string) (key string, err error)
	// URL 返回 key 对应的公开访问地址
	URL(key string) string
}

var (
	store     Store
	storeOnce sync.Once
	storeErr  error
)

func Init() error {
	storeOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.ImageStoreProvider {
		case "local":
			store, storeErr = NewLocalStore(cfg.ImageStoreRoot, cfg.ImageStoreBaseURL)
		case "mock":
			store = NewMockStore(cfg.ImageStoreBaseURL)
		default:
			storeErr = fmt.Errorf("unsupported image store provider: %s", cfg.ImageStoreProvider)
		}

		if storeErr != nil {
			logger.Logger.Error("Failed to initialize image store", zap.Error(storeErr))
			return
		}

		logger.Logger.Info("Image store initialized successfully",
			zap.String("provider", cfg.ImageStoreProvider),
		)
	})

	return storeErr
}

func Get() Store {
	if store == nil {
		panic("image store not initialized, call imagestore.Init() first")
	}
	return store
}

// Set 测试时替换存储实现
func Set(s Store) {
	store = s
}
