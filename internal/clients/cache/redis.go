package cache

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/storage"
)

type RedisClient struct {
	client *redis.Client
}

type redisConfig interface {
	Addr() string
	Password() string
	DB() int
}

func NewRedis(ctx context.Context, config redisConfig) (*RedisClient, error) {
	logger.Info("redis addr", zap.String("addr", config.Addr()))
	rc := redis.NewClient(&redis.Options{
		Addr:     config.Addr(),
		Password: config.Password(),
		DB:       config.DB(),
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &RedisClient{rc}, nil
}

func (rc *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return value, nil
}

func (rc *RedisClient) Set(ctx context.Context, key string, value []byte) error {
	logger.Debug("redis set", zap.String("key", key))
	err := rc.client.Set(ctx, key, value, 0).Err()
	return errors.Wrap(err, "redis set")
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
