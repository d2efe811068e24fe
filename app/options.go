package app

import (
	"database/sql"
	"github.com/RezaEskandarii/remindfire/internal/message_broaker"
	"github.com/RezaEskandarii/remindfire/internal/scheduler"
	"github.com/RezaEskandarii/remindfire/internal/transport"
	"github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

// ContainerOption configures Container creation. Used for testing and customization.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	// Optional: inject connections instead of creating them from config
	db             *sql.DB
	redis          *redis.Client
	mongo          *mongodrv.Database
	skipMigrations bool

	transport transport.Transport
	scheduler scheduler.ExternalScheduler
	broker    message_broaker.MessageBroker
}

// WithDB injects a custom database connection. Useful for testing.
func WithDB(db *sql.DB) ContainerOption {
	return func(c *containerConfig) {
		c.db = db
	}
}

// WithRedis injects a custom Redis client. Useful for testing.
func WithRedis(redis *redis.Client) ContainerOption {
	return func(c *containerConfig) {
		c.redis = redis
	}
}

// WithMongo injects a Mongo database handle. The container does not disconnect its client.
func WithMongo(db *mongodrv.Database) ContainerOption {
	return func(c *containerConfig) {
		c.mongo = db
	}
}

// SkipMigrations leaves the Postgres schema alone at startup.
func SkipMigrations() ContainerOption {
	return func(c *containerConfig) {
		c.skipMigrations = true
	}
}

// WithTransport replaces the transport selected by config.
func WithTransport(t transport.Transport) ContainerOption {
	return func(c *containerConfig) {
		c.transport = t
	}
}

// WithScheduler replaces the external scheduler used by the push strategy.
func WithScheduler(s scheduler.ExternalScheduler) ContainerOption {
	return func(c *containerConfig) {
		c.scheduler = s
	}
}

// WithMessageBroker replaces the RabbitMQ queue writer.
func WithMessageBroker(b message_broaker.MessageBroker) ContainerOption {
	return func(c *containerConfig) {
		c.broker = b
	}
}
