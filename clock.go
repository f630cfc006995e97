// clock.go
package main

import (
	"sync"
	"time"
)

// Clock abstracts time so rate limits and lead timestamps can be tested.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual time.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock implements Clock for testing purposes. Workers read it from
// their own goroutines, so access is guarded.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
}

// Now returns the mocked current time.
func (mc *MockClock) Now() time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.currentTime
}

// Advance moves the current time forward by the specified duration.
func (mc *MockClock) Advance(d time.Duration) {
	mc.mu.Lock()
	mc.currentTime = mc.currentTime.Add(d)
	mc.mu.Unlock()
}
