package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegisterOverwriteResetsClock(t *testing.T) {
	r := New()
	examID := uuid.New()

	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return t0 }
	r.Register(1, examID, 30*time.Minute)

	first, ok := r.Get(1, examID)
	if !ok {
		t.Fatal("attempt not registered")
	}
	if !first.StartTime.Equal(t0) {
		t.Errorf("StartTime = %v, want %v", first.StartTime, t0)
	}

	// Re-fetching the paper re-registers and resets the start time.
	t1 := t0.Add(10 * time.Minute)
	r.now = func() time.Time { return t1 }
	r.Register(1, examID, 30*time.Minute)

	second, _ := r.Get(1, examID)
	if !second.StartTime.Equal(t1) {
		t.Errorf("StartTime after re-register = %v, want %v", second.StartTime, t1)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1 after overwrite", r.Len())
	}
}

func TestRemoveIdempotent(t *testing.T) {
	r := New()
	examID := uuid.New()

	r.Register(1, examID, time.Minute)
	r.Remove(1, examID)
	if _, ok := r.Get(1, examID); ok {
		t.Error("attempt still present after Remove")
	}

	// Removing an absent key is a no-op.
	r.Remove(1, examID)
	r.Remove(99, uuid.New())
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRemainingClampedAtZero(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := Attempt{StartTime: start, Duration: 20 * time.Minute}

	if got := a.Remaining(start.Add(5 * time.Minute)); got != 15*time.Minute {
		t.Errorf("Remaining mid-exam = %v, want 15m", got)
	}
	if got := a.Remaining(start.Add(20 * time.Minute)); got != 0 {
		t.Errorf("Remaining at deadline = %v, want 0", got)
	}
	if got := a.Remaining(start.Add(time.Hour)); got != 0 {
		t.Errorf("Remaining past deadline = %v, want 0", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := New()
	e1, e2 := uuid.New(), uuid.New()
	r.Register(1, e1, time.Minute)
	r.Register(2, e2, time.Minute)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot len = %d, want 2", len(snap))
	}

	// Mutating the registry afterwards must not change the snapshot.
	r.Remove(1, e1)
	r.Remove(2, e2)
	if len(snap) != 2 {
		t.Errorf("snapshot changed after registry mutation")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	examID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		studentID := i
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.Register(studentID, examID, time.Minute)
		}()
		go func() {
			defer wg.Done()
			_ = r.Snapshot()
		}()
		go func() {
			defer wg.Done()
			r.Remove(studentID, examID)
		}()
	}
	wg.Wait()

	// Every student either ended registered or removed; re-register all and
	// verify nothing was lost.
	for i := 0; i < 50; i++ {
		r.Register(i, examID, time.Minute)
	}
	if r.Len() != 50 {
		t.Errorf("Len = %d, want 50", r.Len())
	}
}
