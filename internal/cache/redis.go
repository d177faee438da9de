package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch - размер страницы SCAN при удалении по шаблону.
const scanBatch = 100

// RedisStore реализует Store и Lifecycle поверх go-redis.
// До успешного Connect все операции - промахи и no-op.
type RedisStore struct {
	url string

	mu  sync.RWMutex
	rdb *redis.Client
}

var (
	_ Store     = (*RedisStore)(nil)
	_ Lifecycle = (*RedisStore)(nil)
)

// NewRedisStore создаёт неподключённый стор. Подключение - через Connect.
func NewRedisStore(redisURL string) *RedisStore {
	return &RedisStore{url: redisURL}
}

// Connect разбирает URL, создаёт клиент и проверяет связь через PING.
// При ошибке стор остаётся в отключённом состоянии.
func (s *RedisStore) Connect(ctx context.Context) error {
	opt, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	// короткие таймауты: недоступный кеш не должен тормозить запросы
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = time.Second
	opt.WriteTimeout = time.Second
	opt.MaxRetries = 1

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.mu.Lock()
	old := s.rdb
	s.rdb = rdb
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Disconnect закрывает клиент; повторный вызов безопасен.
func (s *RedisStore) Disconnect() error {
	s.mu.Lock()
	rdb := s.rdb
	s.rdb = nil
	s.mu.Unlock()
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}

// Connected сообщает, был ли успешный Connect без последующего Disconnect.
func (s *RedisStore) Connected() bool {
	return s.client() != nil
}

// Ping проверяет доступность Redis (для /health).
func (s *RedisStore) Ping(ctx context.Context) error {
	rdb := s.client()
	if rdb == nil {
		return errors.New("redis not connected")
	}
	return rdb.Ping(ctx).Err()
}

func (s *RedisStore) client() *redis.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rdb
}

// Get возвращает значение или ErrCacheMiss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	rdb := s.client()
	if rdb == nil {
		return nil, ErrCacheMiss
	}
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set сохраняет значение с TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rdb := s.client()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete удаляет один ключ.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	rdb := s.client()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern удаляет все ключи, подходящие под glob-шаблон, и возвращает их число.
func (s *RedisStore) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	rdb := s.client()
	if rdb == nil {
		return 0, nil
	}

	deleted := 0
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := rdb.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += int(n)
		batch = batch[:0]
		return nil
	}

	iter := rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("redis del by pattern %s: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scan failed for pattern %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("redis del by pattern %s: %w", pattern, err)
	}
	return deleted, nil
}

// Exists проверяет наличие ключа.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	rdb := s.client()
	if rdb == nil {
		return false, nil
	}
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}
