package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/database"
	"github.com/craftfolio/craftfolio-backend/internal/services"
	"github.com/craftfolio/craftfolio-backend/pkg/clientip"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after repeated abuse
	BlockedIPDuration = 24 * time.Hour
	// BlockAfterViolations blocks an IP once it trips limiters this many
	// times within the audit window
	BlockAfterViolations = 20
)

// RateLimitGroup is a named fixed-window limit shared by a group of routes.
// Counters live in Redis keyed by group + normalized client IP; when Redis
// is unavailable the limiter fails open.
type RateLimitGroup struct {
	Name    string
	Max     int
	Window  time.Duration
	Message string
}

var (
	// AuthLimit covers signup/login/forgot/reset.
	AuthLimit = RateLimitGroup{
		Name:    "auth",
		Max:     5,
		Window:  15 * time.Minute,
		Message: "Too many authentication attempts, please try again later.",
	}
	// APILimit covers authenticated general API traffic.
	APILimit = RateLimitGroup{
		Name:    "api",
		Max:     100,
		Window:  15 * time.Minute,
		Message: "Too many requests from this IP, please try again later.",
	}
	// PublicLimit covers the unauthenticated gallery routes.
	PublicLimit = RateLimitGroup{
		Name:    "public",
		Max:     50,
		Window:  15 * time.Minute,
		Message: "Too many requests for public templates, please try again later.",
	}
	// CreationLimit covers template creation.
	CreationLimit = RateLimitGroup{
		Name:    "creation",
		Max:     10,
		Window:  time.Hour,
		Message: "Too many templates created, please try again later.",
	}
	// InteractionLimit covers fork/like/export.
	InteractionLimit = RateLimitGroup{
		Name:    "interaction",
		Max:     30,
		Window:  15 * time.Minute,
		Message: "Too many template interactions, please try again later.",
	}
)

// RateLimit returns a middleware enforcing the given group's fixed window.
func RateLimit(group RateLimitGroup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ipAddress := clientip.RealClientIP(r)
			ctx := context.Background()

			// Blocked IPs are refused outright regardless of group.
			blockedKey := BlockedIPKeyPrefix + ipAddress
			isBlocked, err := database.RedisClient.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				writeRateLimited(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.", BlockedIPDuration)
				return
			}

			rateLimitKey := RateLimitKeyPrefix + group.Name + ":" + ipAddress

			newCount, err := database.RedisClient.Incr(ctx, rateLimitKey).Result()
			if err != nil {
				// Redis down, fail open.
				next.ServeHTTP(w, r)
				return
			}
			if newCount == 1 {
				database.RedisClient.Expire(ctx, rateLimitKey, group.Window)
			}

			if newCount > int64(group.Max) {
				go recordViolation(ipAddress, group.Name, r.URL.Path, blockedKey)
				writeRateLimited(w, group.Message, group.Window)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(group.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(group.Max)-newCount, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(group.Window).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, message string, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	fmt.Fprintf(w, `{"success":false,"message":%q,"retry_after":%d}`, message, int(retryAfter.Seconds()))
}

// recordViolation writes the audit row and escalates to a temporary block
// when an IP keeps tripping limiters. Runs off the request goroutine.
func recordViolation(ipAddress, group, path, blockedKey string) {
	if err := services.RecordRateLimitViolation(ipAddress, group, path); err != nil {
		log.Printf("failed to record rate limit violation: %v", err)
		return
	}

	count, err := services.ViolationCount(ipAddress)
	if err != nil || count < BlockAfterViolations {
		return
	}

	ctx := context.Background()
	if err := database.RedisClient.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); err != nil {
		return
	}
	if err := services.RecordBlockedIP(ipAddress, "repeated rate limit violations", BlockedIPDuration); err != nil {
		log.Printf("failed to record blocked IP: %v", err)
	}
}

// UnblockIP removes an IP from the blocked list (admin function)
func UnblockIP(ipAddress string) error {
	ctx := context.Background()
	return database.RedisClient.Del(ctx, BlockedIPKeyPrefix+ipAddress).Err()
}

// IsIPBlocked checks if an IP is currently blocked
func IsIPBlocked(ipAddress string) (bool, error) {
	ctx := context.Background()
	count, err := database.RedisClient.Exists(ctx, BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}
