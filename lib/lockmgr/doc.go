// Package lockmgr implements an in-process, per-key lock manager. wowa uses
// it to make sure two operations on the same package and game variant never
// interleave their cleanup and write phases, while operations on different
// packages proceed concurrently.
//
// Core Functionality:
//   - Blocking lock acquisition honouring context cancellation
//   - Non-blocking acquisition (TryAcquireLock)
//   - Safe release operations that verify ownership
//
// Implementation Approach:
//
//	Locks live in a concurrent xsync.MapOf keyed by the lock name:
//
//	- Lock Acquisition: LoadOrStore inserts an entry carrying a freshly
//	  generated owner ID. Exactly one caller can store the entry for a key,
//	  every other caller observes the existing entry.
//
//	- Waiting: each entry carries a channel that is closed on release.
//	  Waiters block on that channel (or their context) and then race for
//	  the lock again.
//
//	- Safe Release: ReleaseLock compares owner IDs before deleting the entry
//	  so a caller can never release a lock it does not hold.
//
// Usage Example:
//
//	locks := lockmgr.NewLockManager()
//
//	ownerID, err := locks.AcquireLock(ctx, "retail/details")
//	if err != nil {
//	    // ctx was cancelled
//	}
//	defer locks.ReleaseLock("retail/details", ownerID)
//
// Fairness:
//
//	No ordering between waiters is guaranteed, a released lock goes to
//	whichever waiter stores its entry first.
package lockmgr
