package engine

import (
	"testing"
	"time"

	"github.com/brainrotbuster/buster-go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(clock *fakeClock, randFloat func() float64) (*MorningGate, store.Store) {
	st := store.NewMemoryStore()
	ledger := NewProgressLedger(st, clock.Now)
	return NewMorningGate(st, ledger, clock.Now, randFloat), st
}

func TestMorningGateShowsAfterQualifyingIdle(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	assert.True(t, gate.Pending())

	request, shown := gate.MaybeShow()
	require.True(t, shown)
	assert.Equal(t, "morningGate", request.Kind)
	assert.Equal(t, "sassy", request.MorningStyle)
	assert.NotEmpty(t, request.MorningMessage)
	assert.True(t, gate.AwaitingResponse())

	// Displayed but unanswered: no second display.
	_, shown = gate.MaybeShow()
	assert.False(t, shown)
}

func TestMorningGateThresholdNotMet(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Advance(1 * time.Hour)
	gate.OnIdleStateChanged("active")

	assert.False(t, gate.Pending())
	_, shown := gate.MaybeShow()
	assert.False(t, shown)
}

func TestMorningGateCustomThreshold(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC))
	gate, st := newTestGate(clock, seq(0.0))
	require.NoError(t, st.Set("idleThresholdHours", "2"))

	gate.OnIdleStateChanged("idle")
	clock.Advance(2 * time.Hour)
	gate.OnIdleStateChanged("active")

	assert.True(t, gate.Pending())
}

func TestMorningGateOutsideWindowClearsPending(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	require.True(t, gate.Pending())

	// 13:00 is outside the 06:00-09:00 window: the armed show is consumed
	// without display.
	_, shown := gate.MaybeShow()
	assert.False(t, shown)
	assert.False(t, gate.Pending())
}

func TestMorningGateOncePerDay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown := gate.MaybeShow()
	require.True(t, shown)
	require.True(t, gate.Respond("bypass"))

	// Same day: a fresh qualifying idle span is blocked by the date guard.
	clock.Set(time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 8, 45, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown = gate.MaybeShow()
	assert.False(t, shown)

	// Next calendar day: allowed again.
	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown = gate.MaybeShow()
	assert.True(t, shown)
}

func TestMorningGateStalePendingExpiresOnDateRollover(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	// Armed on day one, but no monitored tab event ever consumes it.
	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	require.True(t, gate.Pending())

	// The next morning's first visit must not inherit yesterday's arm.
	clock.Set(time.Date(2026, 3, 11, 6, 30, 0, 0, time.UTC))
	_, shown := gate.MaybeShow()
	assert.False(t, shown, "stale pending show from the previous day must not display")
	assert.False(t, gate.Pending())

	// A fresh qualifying idle span that morning re-arms it properly.
	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown = gate.MaybeShow()
	assert.True(t, shown)
}

func TestMorningGateAbandonedShowDoesNotSuppressNextDay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown := gate.MaybeShow()
	require.True(t, shown)

	// The user closes the tab without answering: shown stays set all day.
	_, shown = gate.MaybeShow()
	require.False(t, shown)

	// A qualifying idle span into the next morning must display again.
	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown = gate.MaybeShow()
	assert.True(t, shown)
}

func TestMorningGateRespectsPersistedLastShownDate(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, st := newTestGate(clock, seq(0.0))

	// Another writer already recorded a show for today.
	require.NoError(t, st.Set("lastShownDate", "2026-03-10"))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")

	_, shown := gate.MaybeShow()
	assert.False(t, shown)
}

func TestMorningGateRespondStreakCredit(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore()
	ledger := NewProgressLedger(st, clock.Now)
	gate := NewMorningGate(st, ledger, clock.Now, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown := gate.MaybeShow()
	require.True(t, shown)

	require.True(t, gate.Respond("quickAction"))
	_, streak := ledger.Snapshot()
	assert.Equal(t, 1, streak)
	assert.False(t, gate.AwaitingResponse())

	// Date persisted for the once-per-day guard.
	date, ok, err := st.Get("lastShownDate")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2026-03-10", date)
}

func TestMorningGateBypassNoStreak(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	st := store.NewMemoryStore()
	ledger := NewProgressLedger(st, clock.Now)
	gate := NewMorningGate(st, ledger, clock.Now, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")
	_, shown := gate.MaybeShow()
	require.True(t, shown)

	require.True(t, gate.Respond("bypass"))
	_, streak := ledger.Snapshot()
	assert.Zero(t, streak)
}

func TestMorningGateRespondWithoutShow(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	assert.False(t, gate.Respond("bypass"))
}

func TestMorningGateUnknownIdleStateIgnored(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, _ := newTestGate(clock, seq(0.0))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("hibernating")

	// The unknown state must not count as a return to active.
	assert.False(t, gate.Pending())

	gate.OnIdleStateChanged("active")
	assert.True(t, gate.Pending())
}

func TestMorningGateMessageStyleFromStore(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	gate, st := newTestGate(clock, seq(0.0))
	require.NoError(t, st.Set("morningMessageStyle", "meme"))

	gate.OnIdleStateChanged("idle")
	clock.Set(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	gate.OnIdleStateChanged("active")

	request, shown := gate.MaybeShow()
	require.True(t, shown)
	assert.Equal(t, "meme", request.MorningStyle)
	assert.Equal(t, "POV: You woke up and chose chaos 💀", request.MorningMessage)
}
