package http

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const bucketCleanupThreshold = 1 * time.Hour

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per-client fixed-window token bucket. Idle buckets are
// dropped by a cron job.
type RateLimiter struct {
	mu        sync.Mutex
	capacity  int
	refillDur time.Duration
	clients   map[string]*clientBucket
	scheduler *cron.Cron
	now       func() time.Time
}

// NewRateLimiter starts the cleanup job on cleanupSchedule, a cron spec or
// descriptor such as "@every 30m".
func NewRateLimiter(capacity int, refillDur time.Duration, cleanupSchedule string) (*RateLimiter, error) {
	rl := &RateLimiter{
		capacity:  capacity,
		refillDur: refillDur,
		clients:   make(map[string]*clientBucket),
		scheduler: cron.New(),
		now:       time.Now,
	}
	if _, err := rl.scheduler.AddFunc(cleanupSchedule, rl.cleanup); err != nil {
		return nil, fmt.Errorf("rate limiter cleanup schedule %q: %w", cleanupSchedule, err)
	}
	rl.scheduler.Start()
	return rl, nil
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketCleanupThreshold {
			delete(r.clients, ip)
		}
	}
}

// Stop halts the cleanup job and waits for a running cleanup to finish.
func (r *RateLimiter) Stop() {
	<-r.scheduler.Stop().Done()
}

func (r *RateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[ip]

	if !exists {
		r.clients[ip] = &clientBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true
	}

	if now.Sub(bucket.lastRefill) >= r.refillDur {
		bucket.tokens = r.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
