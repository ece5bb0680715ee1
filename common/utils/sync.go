package utils

import (
	"sync"
	"time"
)

// WaitTimeout waits for wg at most timeout and reports whether it completed.
// On timeout the waiting goroutine lingers until wg completes.
func WaitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})

	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
