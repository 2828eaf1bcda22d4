package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ledger-service/shared/utils"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	clients   map[string]*clientLimiter
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idleAfter time.Duration
	done      chan struct{}
	stopOnce  sync.Once
}

func NewRateLimiter(requestsPerSec float64, burst int, idleAfter time.Duration) *RateLimiter {
	if idleAfter <= 0 {
		idleAfter = 30 * time.Minute
	}
	rl := &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		rps:       rate.Limit(requestsPerSec),
		burst:     burst,
		idleAfter: idleAfter,
		done:      make(chan struct{}),
	}
	go rl.cleanupClients()
	return rl
}

func (rl *RateLimiter) getClientLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[key]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

func (rl *RateLimiter) cleanupClients() {
	ticker := time.NewTicker(rl.idleAfter / 3)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	count := 0
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.idleAfter {
			delete(rl.clients, key)
			count++
		}
	}
	if count > 0 {
		slog.Debug("rate limiter cleanup", "removed", count)
	}
	return count
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) Limit() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !rl.getClientLimiter(c.IP()).Allow() {
			slog.Warn("rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return c.Status(http.StatusTooManyRequests).JSON(utils.CreateErrorResponse("RATE_LIMITED", "Rate limit exceeded"))
		}
		return c.Next()
	}
}
