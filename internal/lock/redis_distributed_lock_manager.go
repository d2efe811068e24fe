package lock

import (
	"context"
	"fmt"
	goredis "github.com/redis/go-redis/v9"
	"time"
)

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisDistributedLockManager takes leases with SET NX PX. A crashed holder loses the lock after ttl.
type RedisDistributedLockManager struct {
	client *goredis.Client
	owner  string
	ttl    time.Duration
}

func NewRedisDistributedLockManager(client *goredis.Client, owner string, ttl time.Duration) *RedisDistributedLockManager {
	return &RedisDistributedLockManager{client: client, owner: owner, ttl: ttl}
}

func lockKey(lockID int) string {
	return fmt.Sprintf("remindfire:lock:%d", lockID)
}

func (l *RedisDistributedLockManager) TryAcquire(ctx context.Context, lockID int) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(lockID), l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return ok, nil
}

// Release deletes the key only while this owner still holds it.
func (l *RedisDistributedLockManager) Release(ctx context.Context, lockID int) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(lockID)}, l.owner).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
