// Package locks provides short-lived advisory locks keyed by string.
package locks

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = errors.New("lock is held by another request")

// Locker acquires a lock on key for at most ttl. The returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
