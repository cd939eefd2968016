package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	pkgredis "github.com/Adithya-Monish-Kumar-K/andsearch/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/resilience"
)

// ErrMiss is returned by a Store when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the byte-level backend of a QueryCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// RedisStore keeps entries in Redis with a fixed TTL. Calls go through a
// circuit breaker so an unreachable Redis degrades to cache misses without
// adding a network timeout to every query.
type RedisStore struct {
	client  *pkgredis.Client
	ttl     time.Duration
	breaker *resilience.Breaker
}

func NewRedisStore(client *pkgredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		ttl:     ttl,
		breaker: resilience.NewBreaker("redis-cache", resilience.BreakerConfig{FailureThreshold: 5, Cooldown: 10 * time.Second}),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.breaker.Do(func() error {
		var err error
		data, err = s.client.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrMiss
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.breaker.Do(func() error {
		return s.client.Set(ctx, key, value, s.ttl)
	})
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	err := s.breaker.Do(func() error {
		var err error
		deleted, err = s.client.FlushByPattern(ctx, prefix+"*")
		return err
	})
	return deleted, err
}

// LocalStore is an in-process LRU with per-entry expiry, used when Redis is
// not configured or not reachable.
type LocalStore struct {
	lru *expirable.LRU[string, []byte]
}

func NewLocalStore(size int, ttl time.Duration) *LocalStore {
	if size <= 0 {
		size = 1024
	}
	return &LocalStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := s.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return data, nil
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte) error {
	s.lru.Add(key, value)
	return nil
}

func (s *LocalStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	var deleted int64
	for _, key := range s.lru.Keys() {
		if strings.HasPrefix(key, prefix) && s.lru.Remove(key) {
			deleted++
		}
	}
	return deleted, nil
}
