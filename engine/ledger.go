package engine

import (
	"log"
	"strconv"
	"time"

	"github.com/brainrotbuster/buster-go/store"
)

const (
	keyPoints         = "points"
	keyStreakDays     = "streakDays"
	keyLastStreakDate = "lastStreakDate"
)

const dateLayout = "2006-01-02"

// ProgressLedger owns the persisted points and streak counters. The in-memory
// values are the source of truth between persists; every mutation rewrites
// all keys so a failed write is retried on the next mutation.
type ProgressLedger struct {
	store          store.Store
	points         int
	streakDays     int
	lastStreakDate string
	now            func() time.Time
}

func NewProgressLedger(st store.Store, now func() time.Time) *ProgressLedger {
	ledger := &ProgressLedger{store: st, now: now}
	ledger.points = store.GetInt(st, keyPoints, 0)
	ledger.streakDays = store.GetInt(st, keyStreakDays, 0)
	ledger.lastStreakDate = store.GetString(st, keyLastStreakDate, "")
	return ledger
}

func (l *ProgressLedger) AwardPoints(n int) {
	if n <= 0 {
		return
	}
	l.points += n
	l.persist()
}

// MaybeIncrementStreak increments the streak at most once per calendar date.
// The guard is evaluated against the freshest persisted value immediately
// before commit so concurrent writers cannot double-count a day.
func (l *ProgressLedger) MaybeIncrementStreak() bool {
	today := l.now().Format(dateLayout)

	if persisted, ok, err := l.store.Get(keyLastStreakDate); err == nil && ok {
		l.lastStreakDate = persisted
		l.streakDays = store.GetInt(l.store, keyStreakDays, l.streakDays)
	}

	if l.lastStreakDate == today {
		return false
	}

	l.streakDays++
	l.lastStreakDate = today
	l.persist()
	return true
}

// Snapshot returns the current points and streak.
func (l *ProgressLedger) Snapshot() (points, streakDays int) {
	return l.points, l.streakDays
}

// persist writes all ledger keys. A store failure keeps the in-memory state
// authoritative for the process lifetime; the next mutation rewrites
// everything anyway.
func (l *ProgressLedger) persist() {
	if err := l.store.Set(keyPoints, strconv.Itoa(l.points)); err != nil {
		log.Printf("ERROR: ProgressLedger - failed to persist points: %v", err)
		return
	}
	if err := l.store.Set(keyStreakDays, strconv.Itoa(l.streakDays)); err != nil {
		log.Printf("ERROR: ProgressLedger - failed to persist streak: %v", err)
		return
	}
	if err := l.store.Set(keyLastStreakDate, l.lastStreakDate); err != nil {
		log.Printf("ERROR: ProgressLedger - failed to persist streak date: %v", err)
	}
}
