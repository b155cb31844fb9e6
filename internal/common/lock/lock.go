// Package lock 提供预订准入使用的按键互斥锁
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired 未能在限定时间内获取锁
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker 按键互斥锁
type Locker interface {
	// Acquire 获取 key 对应的锁，返回释放函数
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// KeyMutex 进程内按键互斥锁（单实例部署）
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*mutexEntry
}

type mutexEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyMutex 创建进程内按键互斥锁
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{entries: make(map[string]*mutexEntry)}
}

// Acquire 获取 key 对应的锁，阻塞直到成功或 ctx 取消
func (k *KeyMutex) Acquire(ctx context.Context, key string, _ time.Duration) (func(), error) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &mutexEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		entry.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() {
			entry.mu.Unlock()
			k.release(key, entry)
		}, nil
	case <-ctx.Done():
		// 等待后台 goroutine 拿到锁后立即归还
		go func() {
			<-acquired
			entry.mu.Unlock()
			k.release(key, entry)
		}()
		return nil, ctx.Err()
	}
}

func (k *KeyMutex) release(key string, entry *mutexEntry) {
	k.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// releaseScript 仅当持有者令牌匹配时删除锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 Redis SETNX 的分布式锁（多实例部署）
type RedisLocker struct {
	client        *redis.Client
	keyPrefix     string
	retryInterval time.Duration
}

// NewRedisLocker 创建 Redis 分布式锁
func NewRedisLocker(client *redis.Client, keyPrefix string) *RedisLocker {
	return &RedisLocker{
		client:        client,
		keyPrefix:     keyPrefix,
		retryInterval: 50 * time.Millisecond,
	}
}

// Acquire 获取 key 对应的锁，阻塞重试直到成功或 ctx 取消
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lockKey := l.keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_, _ = releaseScript.Run(releaseCtx, l.client, []string{lockKey}, token).Result()
			}, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrNotAcquired
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// TryAcquire 尝试获取锁，不等待
func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lockKey := l.keyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, _ = releaseScript.Run(releaseCtx, l.client, []string{lockKey}, token).Result()
	}, nil
}
