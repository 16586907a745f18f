package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var testMonitoredSites = []string{
	"twitter.com", "x.com", "instagram.com", "tiktok.com",
	"reddit.com", "youtube.com", "linkedin.com",
}

func TestSessionIsMonitored(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	tracker := NewSessionTracker(testMonitoredSites, clock.Now)

	assert.True(t, tracker.IsMonitored("https://www.tiktok.com/foryou"))
	assert.True(t, tracker.IsMonitored("https://old.reddit.com/r/all"))
	assert.True(t, tracker.IsMonitored("http://x.com"))
	assert.False(t, tracker.IsMonitored("https://example.com"))
	assert.False(t, tracker.IsMonitored("https://docs.google.com"))
	assert.False(t, tracker.IsMonitored(""))
	assert.False(t, tracker.IsMonitored("http://%zz"), "unparseable URL is unmonitored")
	assert.False(t, tracker.IsMonitored("notaurl"), "hostless URL is unmonitored")
}

func TestSessionStartAndStop(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	tracker := NewSessionTracker(testMonitoredSites, clock.Now)

	started, monitored := tracker.OnNavigationOrActivation("https://www.instagram.com/reels")
	assert.True(t, started)
	assert.True(t, monitored)
	assert.True(t, tracker.IsActive())

	clock.Advance(12 * time.Minute)
	assert.InDelta(t, 12, tracker.SessionMinutes(), 0.001)

	// Re-entering a monitored site while active does not restart the timer.
	started, monitored = tracker.OnNavigationOrActivation("https://www.tiktok.com/foryou")
	assert.False(t, started)
	assert.True(t, monitored)
	assert.InDelta(t, 12, tracker.SessionMinutes(), 0.001)

	started, monitored = tracker.OnNavigationOrActivation("https://work.example.com")
	assert.False(t, started)
	assert.False(t, monitored)
	assert.False(t, tracker.IsActive())
	assert.Zero(t, tracker.SessionMinutes())
}

func TestSessionTotalMinutesAccumulates(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	tracker := NewSessionTracker(testMonitoredSites, clock.Now)

	tracker.OnNavigationOrActivation("https://reddit.com")
	clock.Advance(10 * time.Minute)
	tracker.OnNavigationOrActivation("https://example.com")

	tracker.OnNavigationOrActivation("https://www.youtube.com/shorts")
	clock.Advance(5 * time.Minute)

	assert.InDelta(t, 5, tracker.SessionMinutes(), 0.001, "current span only")
	assert.InDelta(t, 15, tracker.TotalMinutes(), 0.001, "closed spans plus current span")
}

func TestSessionActiveTracksLastEvent(t *testing.T) {
	urls := []string{
		"https://www.tiktok.com/foryou",
		"https://old.reddit.com/r/all",
		"https://x.com/home",
		"https://example.com",
		"https://work.example.com/dashboard",
		"http://%zz",
		"",
	}

	rapid.Check(t, func(t *rapid.T) {
		clock := newFakeClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
		tracker := NewSessionTracker(testMonitoredSites, clock.Now)

		events := rapid.SliceOfN(rapid.SampledFrom(urls), 1, 50).Draw(t, "events")
		for _, rawURL := range events {
			tracker.OnNavigationOrActivation(rawURL)
			clock.Advance(time.Duration(rapid.IntRange(0, 300).Draw(t, "seconds")) * time.Second)
		}

		last := events[len(events)-1]
		if tracker.IsMonitored(last) {
			assert.True(t, tracker.IsActive(), "last event on a monitored site must leave the session active")
		} else {
			assert.False(t, tracker.IsActive(), "last event off-site must leave the session inactive")
			assert.Zero(t, tracker.SessionMinutes())
		}
		assert.GreaterOrEqual(t, tracker.TotalMinutes(), tracker.SessionMinutes())
	})
}
