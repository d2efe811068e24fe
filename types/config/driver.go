package config

import (
	"fmt"
	"strings"
)

type StorageDriver int

const (
	Memory StorageDriver = iota + 1
	Redis
	Postgres
	Mongo
)

// String converts the StorageDriver enum to a human-readable string.
func (d StorageDriver) String() string {
	switch d {
	case Memory:
		return "memory"
	case Redis:
		return "redis"
	case Postgres:
		return "postgres"
	case Mongo:
		return "mongo"
	}
	return "unknown"
}

func ParseStorageDriver(value string) (StorageDriver, error) {
	for _, d := range []StorageDriver{Memory, Redis, Postgres, Mongo} {
		if strings.EqualFold(strings.TrimSpace(value), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown storage driver %q", value)
}

// DispatchStrategy selects how planned jobs reach delivery.
type DispatchStrategy int

const (
	DispatchSweep DispatchStrategy = iota + 1 // stored and swept periodically
	DispatchPush                              // handed to an external scheduler
)

func (d DispatchStrategy) String() string {
	switch d {
	case DispatchSweep:
		return "sweep"
	case DispatchPush:
		return "push"
	}
	return "unknown"
}

func ParseDispatchStrategy(value string) (DispatchStrategy, error) {
	for _, d := range []DispatchStrategy{DispatchSweep, DispatchPush} {
		if strings.EqualFold(strings.TrimSpace(value), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dispatch strategy %q", value)
}

type SchedulerDriver int

const (
	SchedulerQStash SchedulerDriver = iota + 1
	SchedulerLocal
)

func (d SchedulerDriver) String() string {
	switch d {
	case SchedulerQStash:
		return "qstash"
	case SchedulerLocal:
		return "local"
	}
	return "unknown"
}

func ParseSchedulerDriver(value string) (SchedulerDriver, error) {
	for _, d := range []SchedulerDriver{SchedulerQStash, SchedulerLocal} {
		if strings.EqualFold(strings.TrimSpace(value), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown scheduler driver %q", value)
}

type TransportDriver int

const (
	TransportWebPush TransportDriver = iota + 1
	TransportLog
)

func (d TransportDriver) String() string {
	switch d {
	case TransportWebPush:
		return "webpush"
	case TransportLog:
		return "log"
	}
	return "unknown"
}

func ParseTransportDriver(value string) (TransportDriver, error) {
	for _, d := range []TransportDriver{TransportWebPush, TransportLog} {
		if strings.EqualFold(strings.TrimSpace(value), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown transport driver %q", value)
}
