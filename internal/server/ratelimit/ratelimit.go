// Package ratelimit throttles session API requests that reach the analysis backend,
// using one golang.org/x/time/rate token bucket per client, path and method.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Environment variables read by LoadConfig.
const (
	EnvEnabled       = "RESUME_ANALYZER_RATE_LIMIT_ENABLED"
	EnvDefaultLimit  = "RESUME_ANALYZER_RATE_LIMIT_DEFAULT"
	EnvDefaultWindow = "RESUME_ANALYZER_RATE_LIMIT_WINDOW"
)

// EndpointConfig is the limit for one endpoint. A Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Requests per Window; 0 means unlimited
	Window time.Duration // Refill period for Limit
	Burst  int           // Bucket capacity; defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// DefaultEndpointConfigs limits the routes that call the backend. Local reads
// such as GET /api/session use the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/api/resume", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/analyze", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/ats/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/search", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/api/career", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
	}
}

// LoadConfig builds a Config from the environment on top of the defaults.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvEnabled)); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvDefaultLimit)); err == nil && v > 0 {
		cfg.DefaultLimit = v
	}
	if v, err := time.ParseDuration(os.Getenv(EnvDefaultWindow)); err == nil && v > 0 {
		cfg.DefaultWindow = v
	}
	return cfg
}

// MatchEndpoint returns the config for path and method, preferring exact matches
// over prefix matches, or nil.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

type bucket struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastUsed time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		limiter:  rate.NewLimiter(rate.Limit(refillRate), capacity),
		lastUsed: time.Now(),
	}
}

// take consumes a token if one is available and reports the bucket state afterwards.
func (b *bucket) take() (allowed bool, remaining int, full time.Time) {
	now := time.Now()
	b.mu.Lock()
	b.lastUsed = now
	b.mu.Unlock()

	allowed = b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	full = now
	if missing := float64(b.limiter.Burst()) - tokens; missing > 0 && b.limiter.Limit() > 0 {
		full = now.Add(time.Duration(missing / float64(b.limiter.Limit()) * float64(time.Second)))
	}
	return allowed, max(0, int(tokens)), full
}

// idleSince reports whether the bucket has not been used since cutoff.
func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.Before(cutoff)
}

// Info describes the limit that applied to a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter is safe for concurrent use. Call Stop to end the cleanup goroutine.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter. A nil config means LoadConfig().
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may call method on path now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	ec := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ec.Limit <= 0 || ec.Window <= 0 {
		return true, Info{Allowed: true}
	}

	burst := ec.Burst
	if burst <= 0 {
		burst = ec.Limit
	}

	key := clientID + ":" + method + ":" + path
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(burst, float64(ec.Limit)/ec.Window.Seconds())
		l.buckets[key] = b
	}
	l.mu.Unlock()

	allowed, remaining, full := b.take()
	info := Info{Allowed: allowed, Limit: ec.Limit, Remaining: remaining, ResetTime: full}
	if !allowed {
		// One token is needed; it arrives after 1/limit seconds at most.
		info.RetryAfter = max(0, time.Duration(float64(time.Second)/float64(b.limiter.Limit())))
	}
	return allowed, info
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now().Add(-time.Hour))
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets unused since cutoff.
func (l *Limiter) evictIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
