package config

import "time"

const defaultMemcachedTimeout = 100 * time.Millisecond

type MemcachedConfig struct {
	NodeHosts     []string `yaml:"hosts"`
	TimeoutMillis int64    `yaml:"timeout-millis"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}

func (s *MemcachedConfig) Timeout() time.Duration {
	if s.TimeoutMillis <= 0 {
		return defaultMemcachedTimeout
	}
	return time.Duration(s.TimeoutMillis) * time.Millisecond
}
