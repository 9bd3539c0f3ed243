// internal/app/system/ratelimit/ratelimit.go
//
// Package ratelimit throttles login attempts with fixed windows kept in
// memory. Counters are per process; behind several replicas each one
// keeps its own.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter allows up to limit hits per key in each window.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a Limiter and starts its sweeper. Call Close to stop it.
func New(limit int, period time.Duration) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.sweep(2 * period)
	return l
}

// Allow counts a hit for key and reports whether it is within the limit.
// A limit of zero or less disables the limiter.
func (l *Limiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns the hits left for key in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// Close stops the sweeper. It is safe to call more than once.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.mu.Lock()
			now := l.now()
			for k, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-IP, or the host
// part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Messages returned by LoginLimiter.Check.
const (
	TooManyFromIP   = "Muitas tentativas de login. Aguarde um minuto e tente novamente."
	TooManyForLogin = "Muitas tentativas de login para este usuário. Aguarde alguns minutos e tente novamente."
)

// LoginConfig sets the login limits. A zero limit disables that check.
type LoginConfig struct {
	PerIP       int
	IPWindow    time.Duration
	PerLogin    int
	LoginWindow time.Duration
}

// DefaultLoginConfig allows 10 attempts per IP per minute and 5 per login
// per 5 minutes.
var DefaultLoginConfig = LoginConfig{
	PerIP:       10,
	IPWindow:    time.Minute,
	PerLogin:    5,
	LoginWindow: 5 * time.Minute,
}

// LoginLimiter throttles login attempts by client IP and by login name.
type LoginLimiter struct {
	ip    *Limiter
	login *Limiter
}

// NewLoginLimiter creates a LoginLimiter. Zero windows take the defaults.
func NewLoginLimiter(cfg LoginConfig) *LoginLimiter {
	if cfg.IPWindow <= 0 {
		cfg.IPWindow = DefaultLoginConfig.IPWindow
	}
	if cfg.LoginWindow <= 0 {
		cfg.LoginWindow = DefaultLoginConfig.LoginWindow
	}
	return &LoginLimiter{
		ip:    New(cfg.PerIP, cfg.IPWindow),
		login: New(cfg.PerLogin, cfg.LoginWindow),
	}
}

func loginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// Check counts an attempt and returns false with a message when either
// limit is exceeded. A nil LoginLimiter allows everything.
func (ll *LoginLimiter) Check(r *http.Request, login string) (bool, string) {
	if ll == nil {
		return true, ""
	}
	if !ll.ip.Allow(ClientIP(r)) {
		return false, TooManyFromIP
	}
	if k := loginKey(login); k != "" && !ll.login.Allow(k) {
		return false, TooManyForLogin
	}
	return true, ""
}

// Succeeded clears the per-login counter after a good login.
func (ll *LoginLimiter) Succeeded(login string) {
	if ll == nil {
		return
	}
	ll.login.Reset(loginKey(login))
}

// Close stops both sweepers.
func (ll *LoginLimiter) Close() {
	if ll == nil {
		return
	}
	ll.ip.Close()
	ll.login.Close()
}
