package usecase

import (
	"sync"
	"time"
)

// WarnThreshold is the violation count at which the user is muted rather
// than warned.
const WarnThreshold = 2

type violationRecord struct {
	count      int
	mutedUntil time.Time
}

// ViolationTracker counts filter hits per user over the process lifetime.
// One hit warns, two mute. The tracker also remembers the mute deadline so
// the pipeline does not re-issue the restrict call for every message a muted
// user manages to slip through.
type ViolationTracker struct {
	users map[int64]*violationRecord
	mu    sync.Mutex
}

func NewViolationTracker() *ViolationTracker {
	return &ViolationTracker{users: make(map[int64]*violationRecord)}
}

// Record adds one violation and returns the new count.
func (t *ViolationTracker) Record(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.users[userID]
	if !ok {
		r = &violationRecord{}
		t.users[userID] = r
	}
	r.count++
	return r.count
}

// Count returns the current violation count.
func (t *ViolationTracker) Count(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.users[userID]
	if !ok {
		return 0
	}
	return r.count
}

// MarkMuted records that a restrict call was issued, valid until the given
// deadline.
func (t *ViolationTracker) MarkMuted(userID int64, until time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.users[userID]
	if !ok {
		r = &violationRecord{}
		t.users[userID] = r
	}
	r.mutedUntil = until
}

// IsMuted reports whether a restrict issued earlier is still in force.
func (t *ViolationTracker) IsMuted(userID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.users[userID]
	if !ok {
		return false
	}
	return now.Before(r.mutedUntil)
}

// Clear resets the user to a clean state (admin exemption).
func (t *ViolationTracker) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.users, userID)
}

// Sweep drops expired mute deadlines so a repeat offender whose platform
// mute has lapsed is restricted again on the next violation. Counts are
// never decayed. Returns the number of records swept.
func (t *ViolationTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	swept := 0
	for _, r := range t.users {
		if !r.mutedUntil.IsZero() && !now.Before(r.mutedUntil) {
			r.mutedUntil = time.Time{}
			swept++
		}
	}
	return swept
}
