package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps cache entries in Redis, for deployments where several
// instances should share one cache. Entries are stored under
// "<namespace>:<key>" with no TTL; eviction happens only on activation.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) entryKey(namespace, key string) string {
	return namespace + ":" + key
}

func (s *RedisStore) Match(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.entryKey(namespace, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.Set(ctx, s.entryKey(namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.Del(ctx, s.entryKey(namespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Namespaces(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var namespaces []string

	iter := s.client.Scan(ctx, 0, "*", 100).Iterator()
	for iter.Next(ctx) {
		// Keys are URLs, which contain colons themselves; the namespace is
		// everything before the first one.
		parts := strings.SplitN(iter.Val(), ":", 2)
		if len(parts) != 2 || seen[parts[0]] {
			continue
		}
		seen[parts[0]] = true
		namespaces = append(namespaces, parts[0])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespaces: %w", err)
	}

	return namespaces, nil
}

func (s *RedisStore) DeleteNamespace(ctx context.Context, namespace string) error {
	iter := s.client.Scan(ctx, 0, namespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan namespace %s: %w", namespace, err)
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context, namespace string) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, namespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan namespace %s: %w", namespace, err)
	}
	return count, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
