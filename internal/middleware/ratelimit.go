package middleware

import (
	"Inkwell/internal/metrics"
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig - лимиты в запросах в минуту на IP.
type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

// ipLimiter - лимитер клиента и время последнего обращения.
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter ограничивает частоту запросов по IP клиента.
type RateLimiter struct {
	name   string
	config RateLimiterConfig
	rate   rate.Limit
	rec    metrics.Recorder

	mu       sync.RWMutex
	limiters map[string]*ipLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter создаёт лимитер и запускает фоновую очистку неактивных IP.
func NewRateLimiter(name string, config RateLimiterConfig, rec metrics.Recorder) *RateLimiter {
	if config.PerMinute <= 0 {
		config.PerMinute = 60
	}
	if config.Burst <= 0 {
		config.Burst = config.PerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	rl := &RateLimiter{
		name:     name,
		config:   config,
		rate:     rate.Limit(float64(config.PerMinute) / 60.0),
		rec:      rec,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop останавливает фоновую очистку.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware отвечает 429 RATE_LIMIT_EXCEEDED с Retry-After, когда лимит исчерпан.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !rl.get(ip).Allow() {
			rl.rec.RecordRateLimited(rl.name)
			sugar.Warnw("rate limit exceeded", "ip", ip, "limiter", rl.name, "path", r.URL.Path)
			rl.reject(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Count - число отслеживаемых IP.
func (rl *RateLimiter) Count() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.RLock()
	l, ok := rl.limiters[ip]
	rl.mu.RUnlock()
	if ok {
		rl.mu.Lock()
		l.lastAccess = time.Now()
		rl.mu.Unlock()
		return l.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	// двойная проверка
	if l, ok := rl.limiters[ip]; ok {
		l.lastAccess = time.Now()
		return l.limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.config.Burst)
	rl.limiters[ip] = &ipLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup удаляет IP, не появлявшиеся дольше двух интервалов очистки.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, l := range rl.limiters {
		if now.Sub(l.lastAccess) > ttl {
			delete(rl.limiters, ip)
		}
	}
}

func (rl *RateLimiter) reject(w http.ResponseWriter) {
	// секунды до появления следующего токена
	retryAfter := int(math.Ceil(1.0 / float64(rl.rate)))
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	response.Error(w, &model.AppError{
		Status:  http.StatusTooManyRequests,
		Code:    model.CodeRateLimitExceeded,
		Message: "too many requests, retry later",
	})
}

// ClientIP - адрес клиента. После chi RealIP в RemoteAddr уже лежит IP из X-Forwarded-For/X-Real-IP.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
