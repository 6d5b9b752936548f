package lockmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTryAcquireAndRelease(t *testing.T) {
	lm := NewLockManager()

	ok, owner := lm.TryAcquireLock("retail/details")
	if !ok || owner == "" {
		t.Fatalf("Expected to acquire a free lock")
	}

	if ok, _ := lm.TryAcquireLock("retail/details"); ok {
		t.Errorf("Expected second acquisition of a held lock to fail")
	}
	if ok, _ := lm.TryAcquireLock("classic/details"); !ok {
		t.Errorf("Expected an unrelated key to be free")
	}

	if lm.ReleaseLock("retail/details", "someone-else") {
		t.Errorf("Expected release by a foreign owner to fail")
	}
	if !lm.ReleaseLock("retail/details", owner) {
		t.Errorf("Expected release by the owner to succeed")
	}
	if !lm.ReleaseLock("retail/details", owner) {
		t.Errorf("Expected releasing a free lock to report true")
	}

	if ok, _ := lm.TryAcquireLock("retail/details"); !ok {
		t.Errorf("Expected lock to be free after release")
	}
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	lm := NewLockManager()
	ctx := context.Background()

	owner, err := lm.AcquireLock(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		o, err := lm.AcquireLock(ctx, "k")
		if err != nil {
			t.Errorf("AcquireLock failed: %v", err)
		}
		lm.ReleaseLock("k", o)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("waiter acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	lm.ReleaseLock("k", owner)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("waiter did not acquire the released lock")
	}
}

func TestAcquireHonoursContext(t *testing.T) {
	lm := NewLockManager()
	if ok, _ := lm.TryAcquireLock("k"); !ok {
		t.Fatal("Expected to acquire a free lock")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := lm.AcquireLock(ctx, "k"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestWithLockIsMutuallyExclusive(t *testing.T) {
	lm := NewLockManager()
	ctx := context.Background()

	var inside atomic.Int32
	var violations atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(ctx, lm, "shared", func() error {
				if inside.Add(1) != 1 {
					violations.Add(1)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("WithLock failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if v := violations.Load(); v != 0 {
		t.Errorf("Expected no concurrent holders, got %d violations", v)
	}
}
