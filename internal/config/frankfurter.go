package config

import "time"

const (
	defaultRatesURL       = "https://api.frankfurter.app/latest"
	defaultTimeoutSeconds = 5
	defaultRetries        = 3
	defaultBackoffMillis  = 200
)

type FrankfurterConfig struct {
	LatestURL      string `yaml:"url"`
	TimeoutSeconds int64  `yaml:"timeout-seconds"`
	RetryCount     int    `yaml:"retries"`
	BackoffMillis  int64  `yaml:"retry-backoff-ms"`
}

func (f *FrankfurterConfig) URL() string {
	if f.LatestURL == "" {
		return defaultRatesURL
	}
	return f.LatestURL
}

func (f *FrankfurterConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

func (f *FrankfurterConfig) Retries() int {
	if f.RetryCount <= 0 {
		return defaultRetries
	}
	return f.RetryCount
}

func (f *FrankfurterConfig) RetryBackoff() time.Duration {
	if f.BackoffMillis <= 0 {
		return defaultBackoffMillis * time.Millisecond
	}
	return time.Duration(f.BackoffMillis) * time.Millisecond
}
