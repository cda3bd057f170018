package commands

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Cooldowns keeps one token bucket per user. A nil *Cooldowns allows everything.
type Cooldowns struct {
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	users  map[string]*userLimiter
	nowFor func() time.Time
}

// NewCooldowns returns nil when perSecond is not positive, disabling cooldowns.
func NewCooldowns(perSecond float64, burst int) *Cooldowns {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Cooldowns{
		limit:  rate.Limit(perSecond),
		burst:  burst,
		users:  make(map[string]*userLimiter),
		nowFor: time.Now,
	}
}

// Allow consumes one token of userID's bucket.
func (c *Cooldowns) Allow(userID string) bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFor()
	u, ok := c.users[userID]
	if !ok {
		u = &userLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.users[userID] = u
	}
	u.lastSeen = now
	return u.limiter.AllowN(now, 1)
}

// Cleanup drops the buckets of users not seen for idle and returns how many were removed.
func (c *Cooldowns) Cleanup(idle time.Duration) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.nowFor().Add(-idle)
	removed := 0
	for id, u := range c.users {
		if u.lastSeen.Before(cutoff) {
			delete(c.users, id)
			removed++
		}
	}
	return removed
}

func (c *Cooldowns) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.users)
}
