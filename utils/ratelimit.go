package utils

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPerMinute is how many commands a user may run per command per
// minute.
const DefaultPerMinute = 15

// RateLimiter controls the rate of command execution
type RateLimiter struct {
	limits map[string]*rate.Limiter
	mu     sync.Mutex
	every  rate.Limit
	burst  int
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing DefaultPerMinute commands a minute
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterPerMinute(DefaultPerMinute)
}

func NewRateLimiterPerMinute(n int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		every:  rate.Every(time.Minute / time.Duration(n)),
		burst:  n,
		now:    time.Now,
	}
}

func (rl *RateLimiter) limiter(userID, command string) *rate.Limiter {
	key := userID + ":" + command
	lim, exists := rl.limits[key]
	if !exists {
		lim = rate.NewLimiter(rl.every, rl.burst)
		rl.limits[key] = lim
	}
	return lim
}

// Allow checks if a user is allowed to execute a command
func (rl *RateLimiter) Allow(userID, command string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.limiter(userID, command).AllowN(rl.now(), 1)
}

// GetRetryAfter returns the time in seconds until the user can try again
func (rl *RateLimiter) GetRetryAfter(userID, command string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	r := rl.limiter(userID, command).ReserveN(now, 1)
	if !r.OK() {
		return 0
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return int(math.Ceil(delay.Seconds()))
}
