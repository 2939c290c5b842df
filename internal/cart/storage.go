package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/westwooddairy/storefront-backend/pkg/redis"
)

type redisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage persists the cart in Redis under the configured storage key.
func NewRedisStorage(client *redis.Client, storageKey string) (Storage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if storageKey == "" {
		return nil, errors.New("storage key required")
	}
	return &redisStorage{client: client, key: client.CartKey(storageKey)}, nil
}

func (s *redisStorage) Load(ctx context.Context) (string, bool, error) {
	payload, err := s.client.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (s *redisStorage) Save(ctx context.Context, payload string) error {
	return s.client.Set(ctx, s.key, payload, 0)
}

func (s *redisStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key)
}

type memoryStorage struct {
	mu      sync.RWMutex
	payload string
	present bool
}

// NewMemoryStorage keeps the cart in process memory. Used in tests and when
// Redis is not configured.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Load(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payload, s.present, nil
}

func (s *memoryStorage) Save(ctx context.Context, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	s.present = true
	return nil
}

func (s *memoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = ""
	s.present = false
	return nil
}
