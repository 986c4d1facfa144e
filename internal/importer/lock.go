package importer

import "sync/atomic"

// runLock is a non-blocking mutex guarding a single import at a time
type runLock struct {
	state atomic.Int32 // 0 = idle, 1 = importing
}

// TryAcquire takes the lock if it is free
func (l *runLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Only the holder may call it.
func (l *runLock) Release() {
	l.state.Store(0)
}
