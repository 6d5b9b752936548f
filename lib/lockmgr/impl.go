package lockmgr

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// lockEntry is the value stored for a held lock. done is closed on release.
type lockEntry struct {
	owner string
	done  chan struct{}
}

type lockMgrImpl struct {
	locks *xsync.MapOf[string, *lockEntry]
}

// NewLockManager creates an in-process lock manager.
func NewLockManager() ILockManager {
	return &lockMgrImpl{
		locks: xsync.NewMapOf[string, *lockEntry](),
	}
}

func (lm *lockMgrImpl) TryAcquireLock(key string) (bool, string) {
	entry := &lockEntry{owner: generateOwnerID(), done: make(chan struct{})}

	// LoadOrStore is atomic: only one caller can store an entry for key
	if _, loaded := lm.locks.LoadOrStore(key, entry); loaded {
		return false, ""
	}
	return true, entry.owner
}

func (lm *lockMgrImpl) AcquireLock(ctx context.Context, key string) (string, error) {
	entry := &lockEntry{owner: generateOwnerID(), done: make(chan struct{})}

	for {
		held, loaded := lm.locks.LoadOrStore(key, entry)
		if !loaded {
			return entry.owner, nil
		}

		// wait for the current holder, then race for the lock again
		select {
		case <-held.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (lm *lockMgrImpl) ReleaseLock(key string, ownerID string) bool {
	held, ok := lm.locks.Load(key)
	if !ok {
		return true
	}

	// only the owner may release, so the entry cannot change between Load and Delete
	if held.owner != ownerID {
		return false
	}

	lm.locks.Delete(key)
	close(held.done)
	return true
}
