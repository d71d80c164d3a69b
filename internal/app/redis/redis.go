package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"finishline/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const (
	servicePrefix   = "finishline."
	jwtPrefix       = servicePrefix + "jwt."
	userNamePrefix  = servicePrefix + "user.name."
	blacklistMarker = "true"
)

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	redisClient := redis.NewClient(&redis.Options{
		Password:    cfg.Password,
		Username:    cfg.User,
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	client.client = redisClient
	return client, nil
}

// NewWithClient wraps an existing go-redis client.
func NewWithClient(c *redis.Client) *Client {
	return &Client{client: c}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, blacklistMarker, jwtTTL).Err()
}

func (c *Client) IsJWTBlacklisted(ctx context.Context, jwtStr string) (bool, error) {
	err := c.client.Get(ctx, jwtPrefix+jwtStr).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetUserName returns a cached display name. ok is false on a cache miss.
func (c *Client) GetUserName(ctx context.Context, userID uint) (name string, ok bool, err error) {
	name, err = c.client.Get(ctx, userNameKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *Client) SetUserName(ctx context.Context, userID uint, name string, ttl time.Duration) error {
	return c.client.Set(ctx, userNameKey(userID), name, ttl).Err()
}

func userNameKey(userID uint) string {
	return userNamePrefix + strconv.FormatUint(uint64(userID), 10)
}
