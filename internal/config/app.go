package config

import (
	"fmt"

	"max.ks1230/kinder-converter/internal/entity/currency"
)

const (
	defaultPullingDelayMinutes = 5

	StorageMemory    = "memory"
	StorageMemcached = "memcached"
	StorageRedis     = "redis"
	StoragePostgres  = "postgres"
)

type AppConfig struct {
	RatePullingDelayMinutes int64   `yaml:"rate-pulling-delay-minutes"`
	KinderPrice             float64 `yaml:"kinder-price-rub"`
	StorageBackend          string  `yaml:"storage"`
}

func (s *AppConfig) PullingDelayMinutes() int64 {
	if s.RatePullingDelayMinutes <= 0 {
		return defaultPullingDelayMinutes
	}
	return s.RatePullingDelayMinutes
}

func (s *AppConfig) KinderPriceRUB() float64 {
	if s.KinderPrice <= 0 {
		return currency.DefaultKinderPriceRUB
	}
	return s.KinderPrice
}

func (s *AppConfig) Storage() string {
	if s.StorageBackend == "" {
		return StorageMemory
	}
	return s.StorageBackend
}

func (s *AppConfig) validate() error {
	switch s.Storage() {
	case StorageMemory, StorageMemcached, StorageRedis, StoragePostgres:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.StorageBackend)
}
