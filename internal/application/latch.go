package application

import "sync"

// latch is a level-triggered signal that stays raised until cleared. Raising an
// already raised latch is a no-op, so repeated signals of one kind coalesce.
type latch struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{})}
}

func (l *latch) Set() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.set {
		l.set = true
		close(l.ch)
	}
}

func (l *latch) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.set {
		l.set = false
		l.ch = make(chan struct{})
	}
}

func (l *latch) IsSet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// Wait returns a channel that is closed while the latch is raised.
func (l *latch) Wait() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ch
}
