package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// credentialPaths are throttled with the stricter auth budget.
var credentialPaths = []string{
	"/api/v1/auth",
	"/api/v1/users/open",
}

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
	sweepInterval     = time.Minute
)

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket pair per client address. A
// non-positive general budget disables general limiting. The client address
// is r.RemoteAddr; forwarding headers are only honoured when a trusted
// proxy middleware has already rewritten RemoteAddr.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	mu         sync.Mutex
	clients    map[string]*clientLimiter
	lastSweep  time.Time
	now        func() time.Time
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		clients:    map[string]*clientLimiter{},
		now:        time.Now,
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := m.getLimiter(extractClientIP(r))

		target := limiter.general
		if isCredentialPath(r.URL.Path) {
			target = limiter.auth
		}

		if target != nil && !target.Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isCredentialPath(path string) bool {
	lower := strings.ToLower(path)
	for _, prefix := range credentialPaths {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = now
		return limiter
	}

	if len(m.clients) >= maxTrackedClients {
		m.evictOldestLocked()
	}

	created := &clientLimiter{
		auth:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.authRPM)), m.authRPM),
		lastSeen: now,
	}
	if m.generalRPM > 0 {
		created.general = rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM)
	}
	m.clients[clientIP] = created

	return created
}

// sweepLocked drops idle clients at most once per sweepInterval.
func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	cutoff := now.Add(-clientIdleTTL)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

func (m *RateLimitMiddleware) evictOldestLocked() {
	var (
		oldestIP   string
		oldestSeen time.Time
	)
	for ip, limiter := range m.clients {
		if oldestIP == "" || limiter.lastSeen.Before(oldestSeen) {
			oldestIP, oldestSeen = ip, limiter.lastSeen
		}
	}
	delete(m.clients, oldestIP)
}

func extractClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return "unknown"
	}

	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}

	return addr
}

// ClientIP exposes the address used for rate limiting so other layers
// record the same value.
func ClientIP(r *http.Request) string {
	return extractClientIP(r)
}
