package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "interview:session:"

// RedisStore keeps JSON snapshots of sessions in Redis. Expiry is the
// eviction policy for abandoned interviews. The per-session lock only
// serializes writers inside this process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  keyedMutex
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}

	data, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	// XX keeps a session evicted mid-turn from being resurrected.
	ok, err := r.client.SetXX(ctx, sessionKey(id), data, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	return current, nil
}
