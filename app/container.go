package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/client"
	"github.com/RezaEskandarii/remindfire/internal/db"
	"github.com/RezaEskandarii/remindfire/internal/lock"
	"github.com/RezaEskandarii/remindfire/internal/message_broaker"
	"github.com/RezaEskandarii/remindfire/internal/scheduler"
	"github.com/RezaEskandarii/remindfire/internal/store"
	"github.com/RezaEskandarii/remindfire/internal/store/memory"
	mongostore "github.com/RezaEskandarii/remindfire/internal/store/mongo"
	"github.com/RezaEskandarii/remindfire/internal/store/postgres"
	redisstore "github.com/RezaEskandarii/remindfire/internal/store/redis"
	"github.com/RezaEskandarii/remindfire/internal/transport"
	"github.com/RezaEskandarii/remindfire/types/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"log"
	"net/http"
	"time"
)

const redisLockTTL = 5 * time.Minute

// Container holds all application dependencies. It is the single source of truth
// for dependency injection and ensures connections and services are created once.
type Container struct {
	Config *config.RemindfireConfig

	// Storage connections (created once, shared by all stores)
	DB          *sql.DB
	Redis       *redis.Client
	Mongo       *mongodrv.Database
	mongoClient *mongodrv.Client // only set when the container dialed Mongo itself

	// Stores. JobStore is nil under the push strategy.
	JobStore      store.JobStore
	Tracker       store.CompletionTracker
	Claims        store.DeliveryClaims
	Subscriptions store.SubscriptionStore

	// Infrastructure
	LockManager    lock.DistributedLockManager
	MessageBroker  message_broaker.MessageBroker
	Transport      transport.Transport
	Scheduler      scheduler.ExternalScheduler
	localScheduler *scheduler.LocalScheduler

	Processor     *client.Processor
	Strategy      client.DispatchStrategy
	SweepStrategy *client.SweepStrategy
	SweepManager  *client.SweepManager
	Callbacks     *client.CallbackHandler
	Planner       *client.Planner
	Manager       *client.ReminderManager
}

// NewContainer creates and wires all dependencies. Single entry point for DI.
// Call this once per application lifecycle.
// Pass optional WithDB, WithRedis, WithMongo to inject connections for testing.
func NewContainer(ctx context.Context, cfg *config.RemindfireConfig, opts ...ContainerOption) (*Container, error) {
	opt := &containerConfig{}
	for _, o := range opts {
		o(opt)
	}

	c := &Container{Config: cfg}
	if err := c.initStorageConnections(ctx, opt); err != nil {
		c.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	c.createStores()
	c.LockManager = c.createDistributedLockManager()

	if cfg.StorageDriver == config.Postgres && !opt.skipMigrations {
		if err := db.Init(ctx, c.DB, c.LockManager); err != nil {
			c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	tr, err := c.createTransport(opt)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Transport = tr

	c.Processor = client.NewProcessor(c.Tracker, c.Transport, client.NewPayloadBuilder(cfg.PlayfulMessages), cfg.SendTimeout)
	c.Callbacks = client.NewCallbackHandler(c.Processor, c.Claims, cfg.ClaimTTL)

	switch cfg.DispatchStrategy {
	case config.DispatchPush:
		c.JobStore = nil
		sched, err := c.createScheduler(opt)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Scheduler = sched
		c.Strategy = client.NewPushStrategy(sched)
	default:
		if cfg.UseQueueWriter {
			broker, err := c.createMessageBroker(opt)
			if err != nil {
				c.Close()
				return nil, err
			}
			c.MessageBroker = broker
		}
		c.SweepStrategy = client.NewSweepStrategy(c.JobStore, c.MessageBroker, cfg.RabbitMQConfig.Queue, cfg.UseQueueWriter)
		c.Strategy = c.SweepStrategy
		c.SweepManager = client.NewSweepManager(c.JobStore, c.Processor, c.LockManager, cfg.WorkerCount)
	}

	var plannerOpts []client.PlannerOption
	if len(cfg.TimesOfDay) > 0 {
		plannerOpts = append(plannerOpts, client.WithTimesOfDay(cfg.TimesOfDay...))
	}
	planner, err := client.NewPlanner(c.Strategy, plannerOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Planner = planner
	c.Manager = client.NewReminderManager(planner, c.Tracker, c.Subscriptions, c.SweepManager, c.Callbacks, c.Processor)

	log.Printf("remindfire container ready: instance=%s storage=%s dispatch=%s transport=%s",
		cfg.Instance, cfg.StorageDriver, cfg.DispatchStrategy, cfg.TransportDriver)
	return c, nil
}

// initStorageConnections creates database connections based on config.
func (c *Container) initStorageConnections(ctx context.Context, opt *containerConfig) error {
	cfg := c.Config
	switch cfg.StorageDriver {
	case config.Memory:
		return nil
	case config.Postgres:
		if opt.db != nil {
			c.DB = opt.db
			return nil
		}
		conn, err := openPostgresDB(cfg.PostgresConfig.ConnectionUrl)
		if err != nil {
			return err
		}
		c.DB = conn
		return nil
	case config.Redis:
		if opt.redis != nil {
			c.Redis = opt.redis
			return nil
		}
		rdb, err := openRedis(ctx, cfg.RedisConfig)
		if err != nil {
			return err
		}
		c.Redis = rdb
		return nil
	case config.Mongo:
		if opt.mongo != nil {
			c.Mongo = opt.mongo
		} else {
			mc, database, err := mongostore.Connect(ctx, cfg.MongoConfig.URI, cfg.MongoConfig.Database)
			if err != nil {
				return err
			}
			c.mongoClient = mc
			c.Mongo = database
		}
		return mongostore.EnsureIndexes(ctx, c.Mongo)
	default:
		return fmt.Errorf("unsupported storage driver: %v", cfg.StorageDriver)
	}
}

func (c *Container) createStores() {
	keys := c.Config.Keys
	switch c.Config.StorageDriver {
	case config.Postgres:
		c.JobStore = postgres.NewPostgresJobStore(c.DB)
		c.Tracker = postgres.NewPostgresCompletionTracker(c.DB)
		c.Claims = postgres.NewPostgresDeliveryClaims(c.DB)
		c.Subscriptions = postgres.NewPostgresSubscriptionStore(c.DB)
	case config.Redis:
		c.JobStore = redisstore.NewJobStore(c.Redis, keys.QueueKey)
		c.Tracker = redisstore.NewCompletionTracker(c.Redis, keys.DoneKeyPrefix, c.Config.CompletionRetention)
		c.Claims = redisstore.NewDeliveryClaims(c.Redis, keys.ClaimKeyPrefix)
		c.Subscriptions = redisstore.NewSubscriptionStore(c.Redis, keys.SubscriptionsKey)
	case config.Mongo:
		c.JobStore = mongostore.NewMongoJobStore(c.Mongo)
		c.Tracker = mongostore.NewMongoCompletionTracker(c.Mongo)
		c.Claims = mongostore.NewMongoDeliveryClaims(c.Mongo)
		c.Subscriptions = mongostore.NewMongoSubscriptionStore(c.Mongo)
	default:
		c.JobStore = memory.NewJobStore()
		c.Tracker = memory.NewCompletionTracker()
		c.Claims = memory.NewDeliveryClaims()
		c.Subscriptions = memory.NewSubscriptionStore()
	}
	if !c.Config.CompletionTracking {
		c.Tracker = store.DisabledCompletionTracker{}
	}
}

// Mongo has no lock manager; its Remove is an atomic DeleteOne, so concurrent sweeps still send once.
func (c *Container) createDistributedLockManager() lock.DistributedLockManager {
	switch c.Config.StorageDriver {
	case config.Postgres:
		return lock.NewPostgresDistributedLockManager(c.DB)
	case config.Redis:
		owner := c.Config.Instance + ":" + uuid.NewString()
		return lock.NewRedisDistributedLockManager(c.Redis, owner, redisLockTTL)
	default:
		return lock.NewLocalLockManager()
	}
}

func (c *Container) createTransport(opt *containerConfig) (transport.Transport, error) {
	if opt.transport != nil {
		return opt.transport, nil
	}
	switch c.Config.TransportDriver {
	case config.TransportWebPush:
		v := c.Config.VAPIDConfig
		return transport.NewWebPushTransport(transport.VAPIDConfig{
			PublicKey:  v.PublicKey,
			PrivateKey: v.PrivateKey,
			Contact:    v.Contact,
		}, v.TTL, &http.Client{Timeout: c.Config.SendTimeout})
	case config.TransportLog:
		return transport.LogTransport{}, nil
	default:
		return nil, fmt.Errorf("unsupported transport driver: %v", c.Config.TransportDriver)
	}
}

func (c *Container) createScheduler(opt *containerConfig) (scheduler.ExternalScheduler, error) {
	if opt.scheduler != nil {
		return opt.scheduler, nil
	}
	switch c.Config.SchedulerDriver {
	case config.SchedulerQStash:
		q := c.Config.QStashConfig
		return scheduler.NewQStashScheduler(q.URL, q.Token, q.CallbackURL(), scheduler.WithCallbackSecret(c.Config.CronSecret))
	case config.SchedulerLocal:
		c.localScheduler = scheduler.NewLocalScheduler(c.Callbacks.Fire)
		return c.localScheduler, nil
	default:
		return nil, fmt.Errorf("unsupported scheduler driver: %v", c.Config.SchedulerDriver)
	}
}

func (c *Container) createMessageBroker(opt *containerConfig) (message_broaker.MessageBroker, error) {
	if opt.broker != nil {
		return opt.broker, nil
	}
	mq := c.Config.RabbitMQConfig
	broker, err := message_broaker.NewRabbitMQ(mq.URL, mq.Exchange, mq.Queue, mq.RoutingKey)
	if err != nil {
		return nil, fmt.Errorf("init rabbitmq: %w", err)
	}
	return broker, nil
}

// Close releases everything the container opened. Injected connections are closed too, except Mongo.
func (c *Container) Close() error {
	var errs []error
	if c.localScheduler != nil {
		if dropped := c.localScheduler.Stop(); dropped > 0 {
			log.Printf("dropped %d pending local reminders", dropped)
		}
	}
	if c.MessageBroker != nil {
		errs = append(errs, c.MessageBroker.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, c.mongoClient.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
