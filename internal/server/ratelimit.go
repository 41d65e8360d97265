package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
)

// maxBlock caps the exponential block duration.
const maxBlock = 24 * time.Hour

// LoginLimitConfig holds login rate limiting configuration.
type LoginLimitConfig struct {
	MaxAttempts int           // attempts allowed per window
	Window      time.Duration // sliding window
	BlockAfter  int           // consecutive failures before a block
	BlockTime   time.Duration // first block duration, doubling each block
}

// DefaultLoginLimitConfig returns the default login rate limiting configuration.
func DefaultLoginLimitConfig() LoginLimitConfig {
	return LoginLimitConfigFrom(config.DefaultServerConfig().Login)
}

// LoginLimitConfigFrom converts the YAML login_limit section.
func LoginLimitConfigFrom(c config.LoginLimit) LoginLimitConfig {
	return LoginLimitConfig{
		MaxAttempts: c.MaxAttempts,
		Window:      c.Window,
		BlockAfter:  c.BlockAfter,
		BlockTime:   c.BlockDuration,
	}
}

// loginLimiter is a per-IP sliding window limiter with exponential blocking
// after repeated failures.
type loginLimiter struct {
	mu     sync.Mutex
	config LoginLimitConfig
	logger *logging.Logger
	now    func() time.Time

	attempts map[string][]time.Time // ip -> attempt times inside the window
	failures map[string]int         // ip -> consecutive failures
	blocked  map[string]time.Time   // ip -> block expiry
}

func newLoginLimiter(cfg LoginLimitConfig, logger *logging.Logger) *loginLimiter {
	def := LoginLimitConfigFrom(config.DefaultServerConfig().Login)
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.BlockAfter <= 0 {
		cfg.BlockAfter = def.BlockAfter
	}
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = def.BlockTime
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &loginLimiter{
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		attempts: make(map[string][]time.Time),
		failures: make(map[string]int),
		blocked:  make(map[string]time.Time),
	}
}

// limitResult is the outcome of a limiter check.
type limitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	IsBlocked  bool   // blocked for repeated failures rather than volume
	Reason     string // shown to the client when not allowed
}

// check reports whether ip may attempt a login now, and records the attempt
// if so.
func (rl *loginLimiter) check(ip string) limitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	if expiry, isBlocked := rl.blocked[ip]; isBlocked {
		if now.Before(expiry) {
			remaining := expiry.Sub(now)
			rl.logger.Debug("login blocked", "ip", ip, "failures", rl.failures[ip], "retry_after", remaining)
			return limitResult{
				RetryAfter: remaining,
				IsBlocked:  true,
				Reason:     "too many failed attempts",
			}
		}
		delete(rl.blocked, ip)
	}

	recent := rl.prune(rl.attempts[ip], now)
	rl.attempts[ip] = recent

	if len(recent) >= rl.config.MaxAttempts {
		retryAfter := recent[0].Add(rl.config.Window).Sub(now)
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		rl.logger.Debug("login rate limited", "ip", ip, "attempts", len(recent), "retry_after", retryAfter)
		return limitResult{
			RetryAfter: retryAfter,
			Reason:     "rate limit exceeded",
		}
	}

	rl.attempts[ip] = append(recent, now)
	return limitResult{Allowed: true}
}

// prune drops attempts that fell out of the window.
func (rl *loginLimiter) prune(attempts []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-rl.config.Window)
	kept := attempts[:0]
	for _, ts := range attempts {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// recordSuccess clears the failure history of ip.
func (rl *loginLimiter) recordSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.failures, ip)
	delete(rl.blocked, ip)
}

// recordFailure counts a failed login. Every BlockAfter failures the IP is
// blocked, each block twice as long as the one before.
func (rl *loginLimiter) recordFailure(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.failures[ip]++
	failCount := rl.failures[ip]
	if failCount < rl.config.BlockAfter {
		return
	}

	blocks := (failCount - rl.config.BlockAfter) / rl.config.BlockAfter
	duration := rl.config.BlockTime
	for i := 0; i < blocks && duration < maxBlock; i++ {
		duration *= 2
	}
	if duration > maxBlock {
		duration = maxBlock
	}

	rl.blocked[ip] = rl.now().Add(duration)
	rl.logger.Warn("login blocked", "ip", ip, "failures", failCount, "duration", duration)
}

// cleanup removes expired entries. It runs on the server's sweep ticker.
func (rl *loginLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	for ip, timestamps := range rl.attempts {
		recent := rl.prune(timestamps, now)
		if len(recent) == 0 {
			delete(rl.attempts, ip)
		} else {
			rl.attempts[ip] = recent
		}
	}

	for ip, expiry := range rl.blocked {
		if now.After(expiry) {
			delete(rl.blocked, ip)
		}
	}

	// Failure counts survive only while the IP is blocked or still active.
	for ip := range rl.failures {
		_, isBlocked := rl.blocked[ip]
		_, hasAttempts := rl.attempts[ip]
		if !isBlocked && !hasAttempts {
			delete(rl.failures, ip)
		}
	}
}

// extractIP returns the client IP of r. X-Forwarded-For (first entry) and
// X-Real-IP are honoured for deployments behind a reverse proxy.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
