package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnEmptyConfig_ShouldUseDefaults(t *testing.T) {
	conf, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, int64(5), conf.App().PullingDelayMinutes())
	assert.Equal(t, 100.0, conf.App().KinderPriceRUB())
	assert.Equal(t, StorageMemory, conf.App().Storage())
	assert.Equal(t, "https://api.frankfurter.app/latest", conf.Frankfurter().URL())
	assert.Equal(t, 5*time.Second, conf.Frankfurter().Timeout())
	assert.Equal(t, 3, conf.Frankfurter().Retries())
	assert.Equal(t, ":3000", conf.HTTP().Addr())
	assert.False(t, conf.Kafka().Enabled())
	assert.False(t, conf.Jaeger().Enabled())
	assert.Equal(t, 5432, conf.Postgres().Port())
	assert.Equal(t, "disable", conf.Postgres().SSLMode())
	assert.Equal(t, 100*time.Millisecond, conf.Memcached().Timeout())
}

func Test_OnTelegramTokenEnv_ShouldOverrideFile(t *testing.T) {
	t.Setenv(telegramTokenEnvKey, "")
	conf, err := Parse([]byte("telegram:\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", conf.Telegram().Token())

	t.Setenv(telegramTokenEnvKey, "from-env")
	assert.Equal(t, "from-env", conf.Telegram().Token())
}

func Test_OnUnknownStorage_ShouldFail(t *testing.T) {
	_, err := Parse([]byte("app:\n  storage: floppy\n"))

	assert.Error(t, err)
}

func Test_OnConfigPathEnv_ShouldReadThatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  rate-pulling-delay-minutes: 1
  kinder-price-rub: 120
  storage: redis
redis:
  addr: cache:6379
kafka:
  brokers: [kafka:9092]
  rates-topic: rates
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv(configPathEnvKey, path)

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, int64(1), conf.App().PullingDelayMinutes())
	assert.Equal(t, 120.0, conf.App().KinderPriceRUB())
	assert.Equal(t, StorageRedis, conf.App().Storage())
	assert.Equal(t, "cache:6379", conf.Redis().Addr())
	assert.True(t, conf.Kafka().Enabled())
	assert.Equal(t, []string{"kafka:9092"}, conf.Kafka().Brokers())
}

func Test_OnMissingFile_ShouldFail(t *testing.T) {
	t.Setenv(configPathEnvKey, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := New()

	assert.Error(t, err)
}
