// Package cache keeps a read-through copy of car records in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a car is not cached.
var ErrMiss = errors.New("cache miss")

const carKeyPrefix = "autolease:car:"

func carKey(id int64) string {
	return carKeyPrefix + strconv.FormatInt(id, 10)
}

// CarCache stores car snapshots as JSON with a fixed TTL.
type CarCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCarCache connects to addr and verifies the connection.
func NewCarCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*CarCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &CarCache{rdb: rdb, ttl: ttl}, nil
}

// Get returns the cached car or ErrMiss.
func (c *CarCache) Get(ctx context.Context, id int64) (*model.Car, error) {
	raw, err := c.rdb.Get(ctx, carKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached car: %w", err)
	}
	var s model.CarSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode cached car: %w", err)
	}
	return model.RestoreCar(s), nil
}

// Set stores car for the configured TTL.
func (c *CarCache) Set(ctx context.Context, car *model.Car) error {
	raw, err := json.Marshal(car.Snapshot())
	if err != nil {
		return fmt.Errorf("encode car: %w", err)
	}
	if err := c.rdb.Set(ctx, carKey(car.ID()), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache car: %w", err)
	}
	return nil
}

// Delete evicts a car.
func (c *CarCache) Delete(ctx context.Context, id int64) error {
	if err := c.rdb.Del(ctx, carKey(id)).Err(); err != nil {
		return fmt.Errorf("evict car: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (c *CarCache) Close() error {
	return c.rdb.Close()
}

// Noop never stores anything. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*model.Car, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, *model.Car) error          { return nil }
func (Noop) Delete(context.Context, int64) error            { return nil }
