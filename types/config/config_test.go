package config

import (
	"errors"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorageDriver_String(t *testing.T) {
	tests := []struct {
		name     string
		driver   StorageDriver
		expected string
	}{
		{"Memory driver", Memory, "memory"},
		{"Redis driver", Redis, "redis"},
		{"Postgres driver", Postgres, "postgres"},
		{"Mongo driver", Mongo, "mongo"},
		{"Unknown driver", StorageDriver(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.driver.String())
		})
	}
}

func TestParseDrivers(t *testing.T) {
	storage, err := ParseStorageDriver(" Redis ")
	require.NoError(t, err)
	assert.Equal(t, Redis, storage)

	strategy, err := ParseDispatchStrategy("push")
	require.NoError(t, err)
	assert.Equal(t, DispatchPush, strategy)

	sched, err := ParseSchedulerDriver("local")
	require.NoError(t, err)
	assert.Equal(t, SchedulerLocal, sched)

	tr, err := ParseTransportDriver("webpush")
	require.NoError(t, err)
	assert.Equal(t, TransportWebPush, tr)

	_, err = ParseStorageDriver("sqlite")
	assert.Error(t, err)
}

func TestNewRemindfireConfig_Defaults(t *testing.T) {
	cfg, err := NewRemindfireConfig("test-instance")
	require.NoError(t, err)

	assert.Equal(t, "test-instance", cfg.Instance)
	assert.Equal(t, Memory, cfg.StorageDriver)
	assert.Equal(t, DispatchSweep, cfg.DispatchStrategy)
	assert.Equal(t, TransportLog, cfg.TransportDriver)
	assert.Equal(t, DefaultWorkerCount, cfg.WorkerCount)
	assert.Equal(t, DefaultSendTimeout, cfg.SendTimeout)
	assert.Equal(t, DefaultSweepSchedule, cfg.SweepSchedule)
	assert.Equal(t, "push:queue", cfg.Keys.QueueKey)
	assert.Equal(t, "push:done:", cfg.Keys.DoneKeyPrefix)
	assert.True(t, cfg.CompletionTracking)
}

func TestNewRemindfireConfig_AggregatesErrors(t *testing.T) {
	_, err := NewRemindfireConfig("",
		WithWorkerCount(0),
		WithSendTimeout(-time.Second),
		WithSweepSchedule("every now and then"),
	)

	var validationErr *custom_errors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Errors, 4)
}

func TestWithPostgresConfig_RequiresDriver(t *testing.T) {
	_, err := NewRemindfireConfig("i", WithPostgresConfig(PostgresConfig{ConnectionUrl: "postgres://x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot set Postgres client when driver is memory")

	cfg, err := NewRemindfireConfig("i", WithStorageDriver(Postgres), WithPostgresConfig(PostgresConfig{ConnectionUrl: "postgres://x"}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", cfg.PostgresConfig.ConnectionUrl)
}

func TestNewRemindfireConfig_CrossChecks(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOption
		want string
	}{
		{"postgres without url", []ConfigOption{WithStorageDriver(Postgres)}, "postgres driver requires a connection URL"},
		{"redis without url", []ConfigOption{WithStorageDriver(Redis)}, "redis driver requires a URL or address"},
		{"mongo without uri", []ConfigOption{WithStorageDriver(Mongo)}, "mongo driver requires a URI"},
		{"qstash without token", []ConfigOption{WithDispatchStrategy(DispatchPush)}, "qstash scheduler requires a token"},
		{"queue writer without url", []ConfigOption{UseRabbitMQueueWriter(true)}, "queue writer requires a rabbitmq URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemindfireConfig("i", tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRemindfireConfig_PushWithLocalScheduler(t *testing.T) {
	cfg, err := NewRemindfireConfig("i", WithDispatchStrategy(DispatchPush), WithSchedulerDriver(SchedulerLocal))
	require.NoError(t, err)
	assert.Equal(t, SchedulerLocal, cfg.SchedulerDriver)
}

func TestQStashConfig_CallbackURL(t *testing.T) {
	q := QStashConfig{BaseURL: "https://app.example.com/"}
	assert.Equal(t, "https://app.example.com/api/push/send", q.CallbackURL())
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REMINDFIRE_TEST_FROM_FILE=yes\n"), 0o600))

	t.Setenv("INSTANCE", "worker-1")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("SEND_TIMEOUT", "3s")
	t.Setenv("TIMES_OF_DAY", "08:00, 20:30")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("PLAYFUL_MESSAGES", "true")
	t.Setenv("COMPLETION_TRACKING", "false")

	v, err := LoadEnv(envFile)
	require.NoError(t, err)
	assert.Equal(t, "yes", os.Getenv("REMINDFIRE_TEST_FROM_FILE"))
	t.Cleanup(func() { os.Unsetenv("REMINDFIRE_TEST_FROM_FILE") })

	cfg, err := FromEnv(v)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", cfg.Instance)
	assert.Equal(t, Redis, cfg.StorageDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisConfig.URL)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
	assert.Equal(t, []string{"08:00", "20:30"}, cfg.TimesOfDay)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "s3cret", cfg.CronSecret)
	assert.True(t, cfg.PlayfulMessages)
	assert.False(t, cfg.CompletionTracking)
	assert.Equal(t, TransportLog, cfg.TransportDriver)
}

func TestFromEnv_GeneratesInstanceAndPicksWebPush(t *testing.T) {
	t.Setenv("INSTANCE", "")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
	t.Setenv("VAPID_CONTACT", "mailto:ops@example.com")

	v, err := LoadEnv("")
	require.NoError(t, err)
	cfg, err := FromEnv(v)
	require.NoError(t, err)

	assert.Contains(t, cfg.Instance, "remindfire-")
	assert.Equal(t, TransportWebPush, cfg.TransportDriver)
	assert.Equal(t, "pub", cfg.VAPIDConfig.PublicKey)
}

func TestFromEnv_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	v, err := LoadEnv("")
	require.NoError(t, err)

	_, err = FromEnv(v)
	assert.ErrorContains(t, err, `unknown storage driver "sqlite"`)
}
