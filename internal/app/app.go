// Package app wires the converter core shared by the bot and the http server.
package app

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/clients/cache"
	"max.ks1230/kinder-converter/internal/clients/frankfurter"
	"max.ks1230/kinder-converter/internal/clients/kafka"
	"max.ks1230/kinder-converter/internal/config"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/engine"
	"max.ks1230/kinder-converter/internal/model/rates"
	"max.ks1230/kinder-converter/internal/model/reports"
	"max.ks1230/kinder-converter/internal/model/storage"
	"max.ks1230/kinder-converter/internal/model/widget"
)

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

type Core struct {
	Engine    *engine.Engine
	Snapshots *storage.Snapshots
	Puller    *rates.Puller
	Sessions  *widget.Registry
	// Reports is nil unless rates history is kept in postgres.
	Reports *reports.Generator

	closers []io.Closer
}

func NewCore(ctx context.Context, conf *config.Service) (*Core, error) {
	c := &Core{}

	kv, history, err := c.initStorage(ctx, conf)
	if err != nil {
		c.Close()
		return nil, err
	}

	var opts []rates.Option
	if history != nil {
		c.Reports = reports.NewGenerator(history)
		// with kafka the reporter fills the history from rate events
		if !conf.Kafka().Enabled() {
			opts = append(opts, rates.WithRecorder(history))
		}
	}

	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			c.Close()
			return nil, errors.Wrap(err, "init kafka producer")
		}
		c.closers = append(c.closers, closerFunc(func() error {
			producer.Close()
			return nil
		}))
		opts = append(opts, rates.WithPublisher(producer))
	}

	c.Engine = engine.New(conf.App().KinderPriceRUB())
	c.Snapshots = storage.NewSnapshots(kv)
	c.Puller = rates.NewPuller(c.Engine, frankfurter.New(conf.Frankfurter()), c.Snapshots, conf.App(), opts...)
	c.Sessions = widget.NewRegistry(c.Engine, c.Snapshots, engine.RandomAmount)
	return c, nil
}

func (c *Core) initStorage(ctx context.Context, conf *config.Service) (kvStore, *storage.PostgresStorage, error) {
	backend := conf.App().Storage()
	logger.Info("init storage", zap.String("backend", backend))

	switch backend {
	case config.StorageMemcached:
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			return nil, nil, errors.Wrap(err, "init memcached")
		}
		return mc, nil, nil
	case config.StorageRedis:
		rc, err := cache.NewRedis(ctx, conf.Redis())
		if err != nil {
			return nil, nil, errors.Wrap(err, "init redis")
		}
		c.closers = append(c.closers, rc)
		return rc, nil, nil
	case config.StoragePostgres:
		db, err := storage.NewPostgresStorage(conf.Postgres())
		if err != nil {
			return nil, nil, errors.Wrap(err, "init postgres")
		}
		c.closers = append(c.closers, db)
		return db, db, nil
	}
	return storage.NewInMemStorage(), nil, nil
}

func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			logger.Error("failed to close resource", zap.Error(err))
		}
	}
	c.closers = nil
}
