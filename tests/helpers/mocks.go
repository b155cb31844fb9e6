// Package helpers 提供 mock 实现
package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLocker 分布式锁 mock，记录每次加锁的 key
type MockLocker struct {
	mock.Mock

	mu       sync.Mutex
	acquired []string
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, key, ttl)

	m.mu.Lock()
	m.acquired = append(m.acquired, key)
	m.mu.Unlock()

	if release, ok := args.Get(0).(func()); ok {
		return release, args.Error(1)
	}
	return func() {}, args.Error(1)
}

// AcquiredKeys 返回已加锁的 key 列表
func (m *MockLocker) AcquiredKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.acquired))
	copy(keys, m.acquired)
	return keys
}

// NoopLocker 不做任何事的锁，用于无并发场景的测试
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return func() {}, nil
}
