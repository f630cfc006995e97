package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	hourlyLimiter *rate.Limiter
	dailyLimiter  *rate.Limiter
	lastReset     time.Time
	banUntil      time.Time
}

// RateLimiter caps provider-backed replies per user. Dialogue steps are not
// limited. A zero per-hour or per-day value disables that bucket.
type RateLimiter struct {
	perHour     int
	perDay      int
	banDuration time.Duration
	clock       Clock

	mu    sync.Mutex
	users map[int64]*userLimiter
}

func NewRateLimiter(t Tuning, clock Clock) *RateLimiter {
	banDuration, _ := time.ParseDuration(t.TempBanDuration)
	return &RateLimiter{
		perHour:     t.MessagePerHour,
		perDay:      t.MessagePerDay,
		banDuration: banDuration,
		clock:       clock,
		users:       make(map[int64]*userLimiter),
	}
}

func newBucket(period time.Duration, n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(period/time.Duration(n)), n)
}

// Allow reports whether the sender keyed by userID may trigger another provider
// call now.
func (l *RateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	limiter, exists := l.users[userID]
	if !exists {
		limiter = &userLimiter{
			hourlyLimiter: newBucket(time.Hour, l.perHour),
			dailyLimiter:  newBucket(24*time.Hour, l.perDay),
			lastReset:     now,
		}
		l.users[userID] = limiter
	}

	if now.Before(limiter.banUntil) {
		return false
	}

	if now.Sub(limiter.lastReset) >= 24*time.Hour {
		limiter.dailyLimiter = newBucket(24*time.Hour, l.perDay)
		limiter.lastReset = now
	}

	if !limiter.hourlyLimiter.AllowN(now, 1) || !limiter.dailyLimiter.AllowN(now, 1) {
		limiter.banUntil = now.Add(l.banDuration)
		return false
	}

	return true
}
