package cache

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/storage"
)

type MemcacheClient struct {
	client *memcache.Client
}

type memcacheConfig interface {
	Hosts() []string
	Timeout() time.Duration
}

func NewMemcache(config memcacheConfig) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	mc.Timeout = config.Timeout()
	if err := mc.Ping(); err != nil {
		return nil, errors.Wrap(err, "memcache ping")
	}
	return &MemcacheClient{mc}, nil
}

func (mc *MemcacheClient) Get(_ context.Context, key string) ([]byte, error) {
	item, err := mc.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "memcache get")
	}
	return item.Value, nil
}

func (mc *MemcacheClient) Set(_ context.Context, key string, value []byte) error {
	logger.Debug("memcache set", zap.String("key", key))
	err := mc.client.Set(&memcache.Item{
		Key:   key,
		Value: value,
	})
	return errors.Wrap(err, "memcache set")
}
