package services

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	refreshLockPrefix = "looply:spotify:refresh:"

	// DefaultRefreshTimeout обмежує спільне оновлення, яке не залежить від запиту, що його почав
	DefaultRefreshTimeout = 30 * time.Second
)

// singleflightGuard об'єднує одночасні оновлення для одного користувача в межах процесу
type singleflightGuard struct {
	group   singleflight.Group
	timeout time.Duration
}

// NewLocalRefreshGuard створює RefreshGuard на основі singleflight.
// Спільне оновлення виконується з власним таймаутом, тож відміна запиту одного викликача не зачіпає інших.
func NewLocalRefreshGuard(timeout time.Duration) RefreshGuard {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &singleflightGuard{timeout: timeout}
}

func (g *singleflightGuard) Do(ctx context.Context, userID string, fn func(ctx context.Context) (string, error)) (string, error) {
	flightCtx := context.WithoutCancel(ctx)

	ch := g.group.DoChan(userID, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(flightCtx, g.timeout)
		defer cancel()
		return fn(ctx)
	})

	select {
	case <-ctx.Done():
		logrus.WithField("user_id", userID).Debug("Caller left before Spotify token refresh finished")
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			logrus.WithField("user_id", userID).Debug("Joined in-flight Spotify token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// redisLockGuard серіалізує оновлення між інстансами через redsync mutex
type redisLockGuard struct {
	rs     *redsync.Redsync
	expiry time.Duration
	local  RefreshGuard
}

// NewRedisRefreshGuard створює RefreshGuard з розподіленим блокуванням у Redis
func NewRedisRefreshGuard(client redis.UniversalClient, expiry, timeout time.Duration) RefreshGuard {
	if expiry <= 0 {
		expiry = 10 * time.Second
	}
	return &redisLockGuard{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		local:  NewLocalRefreshGuard(timeout),
	}
}

func (g *redisLockGuard) Do(ctx context.Context, userID string, fn func(ctx context.Context) (string, error)) (string, error) {
	return g.local.Do(ctx, userID, func(ctx context.Context) (string, error) {
		mutex := g.rs.NewMutex(refreshLockPrefix+userID,
			redsync.WithExpiry(g.expiry),
			redsync.WithTries(50),
			redsync.WithRetryDelay(100*time.Millisecond),
		)

		if err := mutex.LockContext(ctx); err != nil {
			return "", stepError(StepRefreshLock, ErrStore, err)
		}
		defer func() {
			if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
				logrus.WithError(err).WithField("user_id", userID).Warn("Failed to release refresh lock")
			}
		}()

		return fn(ctx)
	})
}
