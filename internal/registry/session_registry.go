// Package registry tracks in-flight exam attempts in process memory.
//
// An entry exists only between exam hand-out and submission. The registry
// is deliberately not persisted: a restart drops in-progress attempts,
// which is safe because no result has been recorded for them; the student
// simply re-fetches the paper.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// AttemptKey identifies one student's attempt at one exam.
type AttemptKey struct {
	StudentID int
	ExamID    uuid.UUID
}

// Attempt holds the metadata recorded when an exam is handed out.
type Attempt struct {
	StudentID int
	ExamID    uuid.UUID
	StartTime time.Time
	Duration  time.Duration
}

// Remaining returns the time left in the attempt at the given instant,
// clamped at zero.
func (a Attempt) Remaining(now time.Time) time.Duration {
	left := a.StartTime.Add(a.Duration).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// SessionRegistry is a concurrency-safe map of active attempts. Construct
// one per service instance with New; it is never a package-level global.
type SessionRegistry struct {
	mu       sync.RWMutex
	attempts map[AttemptKey]Attempt
	now      func() time.Time
}

// New creates an empty SessionRegistry.
func New() *SessionRegistry {
	return &SessionRegistry{
		attempts: make(map[AttemptKey]Attempt),
		now:      time.Now,
	}
}

// Register records an attempt starting now. Registering an existing
// (student, exam) pair overwrites the entry: re-fetching an in-progress
// exam resets the clock. This is documented behavior, not an error.
func (r *SessionRegistry) Register(studentID int, examID uuid.UUID, duration time.Duration) {
	key := AttemptKey{StudentID: studentID, ExamID: examID}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[key] = Attempt{
		StudentID: studentID,
		ExamID:    examID,
		StartTime: r.now(),
		Duration:  duration,
	}
}

// Get returns the attempt for (studentID, examID), if one is registered.
func (r *SessionRegistry) Get(studentID int, examID uuid.UUID) (Attempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[AttemptKey{StudentID: studentID, ExamID: examID}]
	return a, ok
}

// Remove deletes the attempt for (studentID, examID). Removing an absent
// key is a no-op.
func (r *SessionRegistry) Remove(studentID int, examID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, AttemptKey{StudentID: studentID, ExamID: examID})
}

// Len returns the number of active attempts.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Snapshot returns a point-in-time copy of all active attempts. Only the
// map copy happens under the read lock; callers derive remaining time and
// format freely without blocking writers.
func (r *SessionRegistry) Snapshot() []Attempt {
	r.mu.RLock()
	out := make([]Attempt, 0, len(r.attempts))
	for _, a := range r.attempts {
		out = append(out, a)
	}
	r.mu.RUnlock()
	return out
}
