package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "data/config.yaml"
	configPathEnvKey  = "CONFIG_PATH"
)

type config struct {
	Telegram    TelegramConfig    `yaml:"telegram"`
	Frankfurter FrankfurterConfig `yaml:"frankfurter"`
	App         AppConfig         `yaml:"app"`
	HTTP        HTTPConfig        `yaml:"http"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Memcached   MemcachedConfig   `yaml:"memcached"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Jaeger      JaegerConfig      `yaml:"jaeger"`
}

type Service struct {
	config config
}

// New reads the YAML file named by CONFIG_PATH, data/config.yaml by default.
func New() (*Service, error) {
	path := os.Getenv(configPathEnvKey)
	if path == "" {
		path = defaultConfigFile
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

// Parse builds the configuration from raw YAML and fills in defaults.
func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{}

	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	if err = s.config.App.validate(); err != nil {
		return nil, errors.Wrap(err, "app config")
	}
	return s, nil
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Frankfurter() *FrankfurterConfig {
	return &s.config.Frankfurter
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) HTTP() *HTTPConfig {
	return &s.config.HTTP
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Redis() *RedisConfig {
	return &s.config.Redis
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Jaeger() *JaegerConfig {
	return &s.config.Jaeger
}
