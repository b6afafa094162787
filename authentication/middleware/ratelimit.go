package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

const visitorTTL = 2 * time.Minute

// RateLimit returns a per-IP token-bucket limiter. Applied to the auth
// routes so credential guessing gets throttled.
func RateLimit(r rate.Limit, burst int) fiber.Handler {
	var mu sync.Mutex
	visitors := make(map[string]*visitor)

	get := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if v, ok := visitors[ip]; ok {
			v.seen = now
			return v.lim
		}
		// Opportunistic cleanup of idle entries.
		for k, v := range visitors {
			if now.Sub(v.seen) > visitorTTL {
				delete(visitors, k)
			}
		}
		lim := rate.NewLimiter(r, burst)
		visitors[ip] = &visitor{lim: lim, seen: now}
		return lim
	}

	return func(c *fiber.Ctx) error {
		if !get(c.IP()).Allow() {
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}
		return c.Next()
	}
}
