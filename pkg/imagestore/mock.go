package imagestore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockStore 内存实现，测试用
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

func NewMockStore(baseURL string) *MockStore {
	return &MockStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *MockStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := uuid.NewString() + extensionFor(contentType)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return key, nil
}

func (s *MockStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// Len 返回存储的对象数，测试断言用
func (s *MockStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
