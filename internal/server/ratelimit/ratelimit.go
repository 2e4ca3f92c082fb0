// Package ratelimit applies per-client request limits with a stricter tier for expensive endpoints.
package ratelimit

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// Limiter owns one sliding-window counter per endpoint tier, keyed by client IP.
type Limiter struct {
	config   *Config
	fallback *httprate.RateLimiter
	tiers    map[*EndpointConfig]*httprate.RateLimiter
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:       true,
			DefaultLimit:  600,
			DefaultWindow: time.Minute,
			Whitelist:     make(map[string]bool),
			Blacklist:     make(map[string]bool),
		}
	}

	l := &Limiter{
		config: config,
		tiers:  make(map[*EndpointConfig]*httprate.RateLimiter),
	}
	if !config.Enabled {
		return l
	}

	if config.DefaultLimit > 0 {
		l.fallback = httprate.NewRateLimiter(config.DefaultLimit, config.DefaultWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			httprate.WithLimitHandler(rateLimitResponse),
		)
	}
	for i := range config.EndpointConfigs {
		ec := &config.EndpointConfigs[i]
		if ec.Limit <= 0 {
			continue
		}
		l.tiers[ec] = httprate.NewRateLimiter(ec.Limit, ec.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimitResponse),
		)
	}
	return l
}

// Handler wraps next with the configured limits.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	if !l.config.Enabled {
		return next
	}

	limited := make(map[*EndpointConfig]http.Handler, len(l.tiers))
	for ec, rl := range l.tiers {
		limited[ec] = rl.Handler(next)
	}
	fallback := next
	if l.fallback != nil {
		fallback = l.fallback.Handler(next)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		if l.config.Whitelist[clientID] {
			next.ServeHTTP(w, r)
			return
		}
		if l.config.Blacklist[clientID] {
			log.Printf("[rate-limit] Blocked blacklisted client %s", clientID)
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}

		ec := MatchEndpoint(r.URL.Path, r.Method, l.config.EndpointConfigs)
		switch {
		case ec == nil:
			fallback.ServeHTTP(w, r)
		case ec.Limit <= 0:
			next.ServeHTTP(w, r)
		default:
			limited[ec].ServeHTTP(w, r)
		}
	})
}

// extractClientID returns the IP part of RemoteAddr. chi's RealIP middleware
// runs first, so proxies are already accounted for.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimitResponse writes a 429 Too Many Requests response.
func rateLimitResponse(w http.ResponseWriter, r *http.Request) {
	log.Printf("[rate-limit] Rate limit exceeded: %s %s from %s", r.Method, r.URL.Path, extractClientID(r))
	writeJSON(w, http.StatusTooManyRequests, map[string]string{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
