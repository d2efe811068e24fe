package constants

// Advisory lock ids.
const (
	MigrationLock = iota + 7301
	SweepLock
)

const (
	DefaultQueueKey         = "push:queue"
	DefaultDoneKeyPrefix    = "push:done:"
	DefaultSubscriptionsKey = "push:subs"
	DefaultClaimKeyPrefix   = "push:sent:"
)
