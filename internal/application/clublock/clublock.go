// Package clublock serializes check-then-write sequences per club.
//
// Every enroll, unenroll, update and delete for one club runs while holding that
// club's lock; operations on different clubs never wait on each other.
package clublock

import "sync"

// Locker hands out one mutex per club ID. Entries are dropped once no
// goroutine holds or waits for them.
type Locker struct {
	mu    sync.Mutex
	clubs map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{clubs: make(map[string]*entry)}
}

// Lock blocks until the caller holds clubID's lock and returns its release func.
// PRE: none
// POST: caller holds the lock; unlock must be called exactly once
func (l *Locker) Lock(clubID string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.clubs[clubID]
	if !ok {
		e = &entry{}
		l.clubs[clubID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.clubs, clubID)
			}
			l.mu.Unlock()
		})
	}
}

// WithLock runs fn while holding clubID's lock.
func (l *Locker) WithLock(clubID string, fn func() error) error {
	unlock := l.Lock(clubID)
	defer unlock()
	return fn()
}

// Len reports how many clubs currently have a holder or waiter.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clubs)
}
