package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses the URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return fmt.Sprintf("booking:draft:%s", id)
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*models.BookingDraft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft models.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err()
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKey(id)).Err()
}

// RedisRecentStore keeps each device's tracking history in a capped list.
type RedisRecentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRecentStore(client *redis.Client, ttl time.Duration) *RedisRecentStore {
	return &RedisRecentStore{client: client, ttl: ttl}
}

func recentKey(deviceID string) string {
	return fmt.Sprintf("tracking:recent:%s", deviceID)
}

func (s *RedisRecentStore) Push(ctx context.Context, deviceID, bookingID string) ([]string, error) {
	id := models.NormalizeBookingID(bookingID)
	key := recentKey(deviceID)
	if id == "" {
		return s.List(ctx, deviceID)
	}

	var list *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, id)
		pipe.LPush(ctx, key, id)
		pipe.LTrim(ctx, key, 0, models.MaxRecentLookups-1)
		pipe.Expire(ctx, key, s.ttl)
		list = pipe.LRange(ctx, key, 0, -1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list.Val(), nil
}

func (s *RedisRecentStore) List(ctx context.Context, deviceID string) ([]string, error) {
	return s.client.LRange(ctx, recentKey(deviceID), 0, models.MaxRecentLookups-1).Result()
}

func (s *RedisRecentStore) Clear(ctx context.Context, deviceID string) error {
	return s.client.Del(ctx, recentKey(deviceID)).Err()
}

// RedisInFlightGuard uses SET NX with an expiry so a crashed holder cannot
// block a booking forever.
type RedisInFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisInFlightGuard(client *redis.Client, ttl time.Duration) *RedisInFlightGuard {
	return &RedisInFlightGuard{client: client, ttl: ttl}
}

func inFlightKey(key string) string {
	return fmt.Sprintf("booking:inflight:%s", key)
}

func (g *RedisInFlightGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, inFlightKey(key), time.Now().Unix(), g.ttl).Result()
}

func (g *RedisInFlightGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, inFlightKey(key)).Err()
}
