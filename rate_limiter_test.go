package main

import (
	"testing"
	"time"
)

// TestRateLimiter_Allow verifies that users are allowed or denied based on
// their message rates.
func TestRateLimiter_Allow(t *testing.T) {
	mockClock := &MockClock{
		currentTime: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	tuning := Tuning{
		MessagePerHour:  5,
		MessagePerDay:   10,
		TempBanDuration: "1m",
	}
	limiter := NewRateLimiter(tuning, mockClock)

	userID := int64(12345)
	allow := func() bool {
		return limiter.Allow(userID)
	}

	// Send 5 messages within the hourly limit
	for i := 0; i < tuning.MessagePerHour; i++ {
		if !allow() {
			t.Errorf("Expected message %d to be allowed", i+1)
		}
	}

	// 6th message should exceed the hourly limit and trigger a ban
	if allow() {
		t.Errorf("Expected message to be denied due to hourly limit exceeded")
	}

	if allow() {
		t.Errorf("Expected message to be denied while user is banned")
	}

	// Other users are unaffected
	if !limiter.Allow(userID + 1) {
		t.Errorf("Expected another user to be allowed")
	}

	// Lift the ban and let the hourly bucket refill
	mockClock.Advance(time.Minute)
	mockClock.Advance(time.Hour)

	if !allow() {
		t.Errorf("Expected message to be allowed after ban duration")
	}

	for i := 0; i < tuning.MessagePerDay-tuning.MessagePerHour-1; i++ {
		if !allow() {
			t.Errorf("Expected message %d to be allowed towards daily limit", i+1)
		}
	}

	if allow() {
		t.Errorf("Expected message to be denied due to daily limit exceeded")
	}

	// A new day resets the daily bucket
	mockClock.Advance(24 * time.Hour)
	if !allow() {
		t.Errorf("Expected message to be allowed on the next day")
	}
}

func TestRateLimiter_ZeroDisablesBucket(t *testing.T) {
	mockClock := &MockClock{currentTime: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(Tuning{TempBanDuration: "1h"}, mockClock)

	for i := 0; i < 1000; i++ {
		if !limiter.Allow(1) {
			t.Fatalf("Expected message %d to be allowed with limits disabled", i+1)
		}
	}
}
