package engine

import (
	"log"
	"net/url"
	"strings"
	"time"
)

// SessionTracker converts tab activation and navigation events into a single
// active/inactive session timer. startedAt is non-zero iff the session is
// active; closed spans accumulate into accumulated.
type SessionTracker struct {
	monitoredSites []string
	isActive       bool
	startedAt      time.Time
	accumulated    time.Duration
	now            func() time.Time
}

func NewSessionTracker(monitoredSites []string, now func() time.Time) *SessionTracker {
	return &SessionTracker{
		monitoredSites: monitoredSites,
		now:            now,
	}
}

// IsMonitored reports whether the URL's host matches the social allow-list.
// Malformed or hostless URLs are treated as unmonitored.
func (s *SessionTracker) IsMonitored(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("WARNING: SessionTracker - unparseable URL treated as unmonitored: %v", err)
		return false
	}

	host := parsed.Hostname()
	if host == "" {
		return false
	}

	for _, site := range s.monitoredSites {
		if strings.Contains(host, site) {
			return true
		}
	}
	return false
}

// OnNavigationOrActivation reclassifies the current tab and applies the
// session transition. Returns whether a new session started and whether the
// URL is monitored. Re-entering a monitored site while active is a no-op.
func (s *SessionTracker) OnNavigationOrActivation(rawURL string) (started bool, monitored bool) {
	monitored = s.IsMonitored(rawURL)

	if monitored && !s.isActive {
		s.isActive = true
		s.startedAt = s.now()
		return true, true
	}

	if !monitored && s.isActive {
		s.accumulated += s.now().Sub(s.startedAt)
		s.isActive = false
		s.startedAt = time.Time{}
	}

	return false, monitored
}

func (s *SessionTracker) IsActive() bool {
	return s.isActive
}

// SessionMinutes returns elapsed time of the current active span, 0 if
// inactive. This is the value trigger evaluation uses, distinct from the
// lifetime total.
func (s *SessionTracker) SessionMinutes() float64 {
	if !s.isActive {
		return 0
	}
	return s.now().Sub(s.startedAt).Minutes()
}

// TotalMinutes returns lifetime monitored time including the current span.
func (s *SessionTracker) TotalMinutes() float64 {
	total := s.accumulated
	if s.isActive {
		total += s.now().Sub(s.startedAt)
	}
	return total.Minutes()
}
