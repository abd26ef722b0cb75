package services

import (
	"log/slog"
	"sync"
	"time"
)

// windowEntry tracks request counts inside one fixed window
type windowEntry struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// RateLimitService counts requests per identifier in fixed windows. State is
// process-local by design: with multiple replicas limits under-count, they
// never over-permit a single process.
type RateLimitService struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	logger  *slog.Logger
}

// NewRateLimitService creates a new RateLimitService and starts its janitor
func NewRateLimitService(logger *slog.Logger) *RateLimitService {
	s := &RateLimitService{
		entries: make(map[string]*windowEntry),
		logger:  logger,
	}

	go s.cleanupExpiredWindows()

	return s
}

// Allow records a request against the identifier and reports whether it fits
// inside the window. When denied, retryAfter hints how long until the window
// resets.
func (s *RateLimitService) Allow(identifier string, window time.Duration, maxRequests int) (bool, time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[identifier]
	if !ok || now.Sub(entry.windowStart) >= window {
		s.entries[identifier] = &windowEntry{count: 1, windowStart: now, window: window}
		return true, 0
	}

	entry.count++
	entry.window = window
	if entry.count > maxRequests {
		retryAfter := window - now.Sub(entry.windowStart)
		s.logger.Warn("rate limit exceeded",
			slog.String("identifier", identifier),
			slog.Int("count", entry.count),
			slog.Int("max", maxRequests))
		return false, retryAfter
	}

	return true, 0
}

// cleanupExpiredWindows periodically drops windows that have lapsed
func (s *RateLimitService) cleanupExpiredWindows() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for identifier, entry := range s.entries {
			if now.Sub(entry.windowStart) >= entry.window {
				delete(s.entries, identifier)
			}
		}
		s.mu.Unlock()
	}
}
