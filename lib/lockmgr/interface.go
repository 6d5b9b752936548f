package lockmgr

import "context"

// ILockManager defines the interface for a lock provider.
type ILockManager interface {
	// AcquireLock blocks until the lock for key is acquired or ctx is done.
	// Returns the owner ID needed to release the lock.
	AcquireLock(ctx context.Context, key string) (ownerID string, err error)

	// TryAcquireLock acquires the lock for key if it is free and never blocks.
	// Returns a boolean indicating whether the lock was acquired and the owner ID.
	TryAcquireLock(key string) (ok bool, ownerID string)

	// ReleaseLock releases the lock for key.
	// Returns false if the lock is held by a different owner. The method also
	// returns true if the lock did not exist.
	ReleaseLock(key string, ownerID string) (ok bool)
}
