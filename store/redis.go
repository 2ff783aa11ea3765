package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisKeyPrefix namespaces every key the Redis store writes.
const RedisKeyPrefix = "julebord"

// Redis keeps flags as plain string keys with no TTL.
type Redis struct {
	client *redis.Client
}

// OpenRedis connects to Redis and pings it once.
func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// For returns a store scoped to visitorID.
func (r *Redis) For(visitorID string) Store {
	return &redisVisitor{client: r.client, visitorID: visitorID}
}

// RedisKey builds the key for one visitor's flag.
func RedisKey(visitorID, name string) string {
	return RedisKeyPrefix + ":" + visitorID + ":" + name
}

type redisVisitor struct {
	client    *redis.Client
	visitorID string
}

func (s *redisVisitor) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, RedisKey(s.visitorID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (s *redisVisitor) Write(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, RedisKey(s.visitorID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *redisVisitor) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, RedisKey(s.visitorID, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
