package config

import "time"

const (
	DefaultHTTPPort            = 3000
	DefaultWorkerCount         = 1
	DefaultStorageDriver       = Memory
	DefaultDispatchStrategy    = DispatchSweep
	DefaultSchedulerDriver     = SchedulerQStash
	DefaultTransportDriver     = TransportLog
	DefaultSweepSchedule       = "@every 5m"
	DefaultSendTimeout         = 10 * time.Second
	DefaultPushTTL             = 24 * 60 * 60 // seconds
	DefaultCompletionRetention = 7 * 24 * time.Hour
	DefaultClaimTTL            = 48 * time.Hour
	DefaultMongoDatabase       = "remindfire"
	DefaultRabbitMQQueue       = "remindfire.reminders"
)
