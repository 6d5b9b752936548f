package lockmgr

import (
	"context"

	"github.com/google/uuid"
)

// generateOwnerID creates a new unique owner ID
func generateOwnerID() string {
	return uuid.NewString()
}

// WithLock runs fn while holding the lock for key.
func WithLock(ctx context.Context, lm ILockManager, key string, fn func() error) error {
	ownerID, err := lm.AcquireLock(ctx, key)
	if err != nil {
		return err
	}
	defer lm.ReleaseLock(key, ownerID)

	return fn()
}
