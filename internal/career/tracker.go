package career

import "sync"

// Tracker records which missing skills a user has marked as learned. It is purely
// local and never sent to the backend.
type Tracker struct {
	mu   sync.RWMutex
	done map[string]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{done: make(map[string]bool)}
}

// Toggle flips the completion mark of skill and returns the new value.
func (t *Tracker) Toggle(skill string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done[skill] = !t.done[skill]
	return t.done[skill]
}

// Done reports whether skill is marked as learned.
func (t *Tracker) Done(skill string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.done[skill]
}

// Reset clears every mark.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = make(map[string]bool)
}

// Progress counts the missing skills of a step that are marked as learned.
func (t *Tracker) Progress(missingSkills []string) (completed, total int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, skill := range missingSkills {
		if t.done[skill] {
			completed++
		}
	}
	return completed, len(missingSkills)
}

// Ratio is completed / total, with an empty skill list counting as 0 of 1.
func (t *Tracker) Ratio(missingSkills []string) float64 {
	completed, total := t.Progress(missingSkills)
	if total == 0 {
		total = 1
	}
	return float64(completed) / float64(total)
}

// Snapshot returns a copy of the marked skills.
func (t *Tracker) Snapshot() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]bool, len(t.done))
	for skill, done := range t.done {
		if done {
			out[skill] = true
		}
	}
	return out
}
