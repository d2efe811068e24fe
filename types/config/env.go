package config

import (
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/parser"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"os"
)

// LoadEnv loads envFile into the process environment when it exists and returns a viper reading from it.
// A missing file is not an error.
func LoadEnv(envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config.godotenv(%s): %w", envFile, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config.os.Stat(%s): %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("INSTANCE", "")
	v.SetDefault("HTTP_PORT", DefaultHTTPPort)
	v.SetDefault("STORAGE_DRIVER", DefaultStorageDriver.String())
	v.SetDefault("DISPATCH_STRATEGY", DefaultDispatchStrategy.String())
	v.SetDefault("SCHEDULER_DRIVER", DefaultSchedulerDriver.String())
	v.SetDefault("TRANSPORT_DRIVER", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MONGO_URL", "")
	v.SetDefault("MONGO_DATABASE", DefaultMongoDatabase)
	v.SetDefault("QUEUE_KEY", "")
	v.SetDefault("DONE_KEY_PREFIX", "")
	v.SetDefault("SUBSCRIPTIONS_KEY", "")
	v.SetDefault("CRON_SECRET", "")
	v.SetDefault("SWEEP_SCHEDULE", DefaultSweepSchedule)
	v.SetDefault("WORKER_COUNT", DefaultWorkerCount)
	v.SetDefault("SEND_TIMEOUT", DefaultSendTimeout)
	v.SetDefault("COMPLETION_TRACKING", true)
	v.SetDefault("COMPLETION_RETENTION", DefaultCompletionRetention)
	v.SetDefault("CLAIM_TTL", DefaultClaimTTL)
	v.SetDefault("VAPID_PUBLIC_KEY", "")
	v.SetDefault("VAPID_PRIVATE_KEY", "")
	v.SetDefault("VAPID_CONTACT", "")
	v.SetDefault("PUSH_TTL", DefaultPushTTL)
	v.SetDefault("QSTASH_URL", "")
	v.SetDefault("QSTASH_TOKEN", "")
	v.SetDefault("PUSH_BASE_URL", "")
	v.SetDefault("USE_QUEUE_WRITER", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "")
	v.SetDefault("RABBITMQ_QUEUE", DefaultRabbitMQQueue)
	v.SetDefault("TIMES_OF_DAY", "")
	v.SetDefault("TIMEZONE", "")
	v.SetDefault("PLAYFUL_MESSAGES", false)
	v.AutomaticEnv()
	return v, nil
}

// FromEnv turns the environment read by v into a validated RemindfireConfig.
// Without TRANSPORT_DRIVER, webpush is used when VAPID keys are present and log otherwise.
func FromEnv(v *viper.Viper) (*RemindfireConfig, error) {
	instance := v.GetString("INSTANCE")
	if instance == "" {
		instance = "remindfire-" + uuid.NewString()[:8]
	}

	var opts []ConfigOption
	fail := func(err error) ConfigOption {
		return func(*RemindfireConfig) error { return err }
	}

	storage, err := ParseStorageDriver(v.GetString("STORAGE_DRIVER"))
	if err != nil {
		opts = append(opts, fail(err))
	} else {
		opts = append(opts, WithStorageDriver(storage))
		switch storage {
		case Postgres:
			opts = append(opts, WithPostgresConfig(PostgresConfig{ConnectionUrl: v.GetString("DATABASE_URL")}))
		case Redis:
			opts = append(opts, WithRedisConfig(RedisConfig{URL: v.GetString("REDIS_URL")}))
		case Mongo:
			opts = append(opts, WithMongoConfig(MongoConfig{URI: v.GetString("MONGO_URL"), Database: v.GetString("MONGO_DATABASE")}))
		}
	}

	if strategy, err := ParseDispatchStrategy(v.GetString("DISPATCH_STRATEGY")); err != nil {
		opts = append(opts, fail(err))
	} else {
		opts = append(opts, WithDispatchStrategy(strategy))
	}
	if sched, err := ParseSchedulerDriver(v.GetString("SCHEDULER_DRIVER")); err != nil {
		opts = append(opts, fail(err))
	} else {
		opts = append(opts, WithSchedulerDriver(sched))
	}

	vapid := VAPIDConfig{
		PublicKey:  v.GetString("VAPID_PUBLIC_KEY"),
		PrivateKey: v.GetString("VAPID_PRIVATE_KEY"),
		Contact:    v.GetString("VAPID_CONTACT"),
		TTL:        v.GetInt("PUSH_TTL"),
	}
	transportName := v.GetString("TRANSPORT_DRIVER")
	if transportName == "" {
		transportName = TransportLog.String()
		if vapid.IsComplete() {
			transportName = TransportWebPush.String()
		}
	}
	if tr, err := ParseTransportDriver(transportName); err != nil {
		opts = append(opts, fail(err))
	} else {
		opts = append(opts, WithTransportDriver(tr))
		if tr == TransportWebPush {
			opts = append(opts, WithVAPIDConfig(vapid))
		}
	}

	if token := v.GetString("QSTASH_TOKEN"); token != "" {
		opts = append(opts, WithQStashConfig(QStashConfig{
			URL:     v.GetString("QSTASH_URL"),
			Token:   token,
			BaseURL: v.GetString("PUSH_BASE_URL"),
		}))
	}

	if v.GetBool("USE_QUEUE_WRITER") {
		opts = append(opts, WithRabbitMQConfig(RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
		}))
	}

	if port := v.GetUint("HTTP_PORT"); port != 0 {
		opts = append(opts, WithHTTPPort(port))
	}
	if times := v.GetString("TIMES_OF_DAY"); times != "" {
		opts = append(opts, WithTimesOfDay(parser.SplitList(times)))
	}
	if tz := v.GetString("TIMEZONE"); tz != "" {
		opts = append(opts, WithTimezone(tz))
	}

	opts = append(opts,
		WithKeys(KeyConfig{
			QueueKey:         v.GetString("QUEUE_KEY"),
			DoneKeyPrefix:    v.GetString("DONE_KEY_PREFIX"),
			SubscriptionsKey: v.GetString("SUBSCRIPTIONS_KEY"),
		}),
		WithCronSecret(v.GetString("CRON_SECRET")),
		WithSweepSchedule(v.GetString("SWEEP_SCHEDULE")),
		WithWorkerCount(v.GetInt("WORKER_COUNT")),
		WithSendTimeout(v.GetDuration("SEND_TIMEOUT")),
		WithCompletionTracking(v.GetBool("COMPLETION_TRACKING")),
		WithCompletionRetention(v.GetDuration("COMPLETION_RETENTION")),
		WithClaimTTL(v.GetDuration("CLAIM_TTL")),
		WithPlayfulMessages(v.GetBool("PLAYFUL_MESSAGES")),
	)

	return NewRemindfireConfig(instance, opts...)
}
