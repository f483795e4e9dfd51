package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRunLockHeld = errors.New("run lock is held by another run")

// RunLock guards a job against overlapping runs across processes
type RunLock interface {
	// Acquire takes the lock or returns ErrRunLockHeld. The returned func releases it.
	Acquire(ctx context.Context) (func(), error)
}

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRunLock is a SET NX lock with a TTL so a crashed holder cannot block later runs forever
type RedisRunLock struct {
	rc  redis.UniversalClient
	key string
	ttl time.Duration
}

func NewRedisRunLock(rc redis.UniversalClient, key string, ttl time.Duration) *RedisRunLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisRunLock{rc: rc, key: key, ttl: ttl}
}

func (l *RedisRunLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rc.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrRunLockHeld
	}

	return func() {
		// the caller's ctx may already be canceled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.rc, []string{l.key}, token).Err()
	}, nil
}
