package engine

import "sync"

// athleteLocks serializes engine operations per athlete. The map only grows;
// the entry count is bounded by the athlete population, which is fine for a
// single-process deployment. A multi-instance deployment would lean on the
// store's row-level guarantees instead.
type athleteLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAthleteLocks() *athleteLocks {
	return &athleteLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the athlete's mutex and returns the release func.
func (l *athleteLocks) lock(athleteID string) func() {
	l.mu.Lock()
	m, ok := l.locks[athleteID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[athleteID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
