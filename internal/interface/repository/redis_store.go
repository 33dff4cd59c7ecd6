package repository

import (
	"context"
	"errors"
	"fmt"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"github.com/go-redis/redis/v8"
)

// RedisKeyValueStore implements KeyValueStore on Redis strings
type RedisKeyValueStore struct {
	client *redis.Client
	prefix string
}

// NewRedisKeyValueStore creates a store whose keys live under flightdesk:<sessionID>:
func NewRedisKeyValueStore(client *redis.Client, sessionID string) repository.KeyValueStore {
	return &RedisKeyValueStore{
		client: client,
		prefix: fmt.Sprintf("flightdesk:%s:", sessionID),
	}
}

// Get returns the value stored under key
func (s *RedisKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", entity.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key without expiry
func (s *RedisKeyValueStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Delete removes key
func (s *RedisKeyValueStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
