package engine

import (
	"log"
	"time"

	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/models"
	"github.com/brainrotbuster/buster-go/store"
	"github.com/brainrotbuster/buster-go/utils"
)

const (
	keyIdleThresholdHours  = "idleThresholdHours"
	keyLastShownDate       = "lastShownDate"
	keyMorningStart        = "morningStart"
	keyMorningEnd          = "morningEnd"
	keyMorningMessageStyle = "morningMessageStyle"
)

// MorningGate decides, at most once per calendar day, whether to gate the
// first social visit after a long idle period. Idle duration is a proxy for
// sleep, not a guarantee; the once-per-day cap prevents repeated prompts when
// the user idles and returns several times in one morning.
type MorningGate struct {
	store     store.Store
	ledger    *ProgressLedger
	now       func() time.Time
	randFloat func() float64

	idleSince     time.Time
	pendingShow   bool
	pendingDate   string // date the pending show was armed; stale arms expire
	shown         bool
	shownDate     string // date the gate was displayed, for abandoned shows
	lastShownDate string // in-memory mirror in case the store is down
}

func NewMorningGate(st store.Store, ledger *ProgressLedger, now func() time.Time, randFloat func() float64) *MorningGate {
	gate := &MorningGate{
		store:     st,
		ledger:    ledger,
		now:       now,
		randFloat: randFloat,
	}
	gate.lastShownDate = store.GetString(st, keyLastShownDate, "")
	return gate
}

// OnIdleStateChanged records idle/locked starts and, on the return to active,
// arms pendingShow when the idle span met the configured threshold. Unknown
// states are ignored (conservative: no idle transition).
func (g *MorningGate) OnIdleStateChanged(state string) {
	switch state {
	case "idle", "locked":
		g.idleSince = g.now()

	case "active":
		if !g.idleSince.IsZero() {
			idleDuration := g.now().Sub(g.idleSince)
			threshold := time.Duration(store.GetInt(g.store, keyIdleThresholdHours, defaults.DefaultIdleThresholdHours)) * time.Hour
			if idleDuration >= threshold {
				g.pendingShow = true
				g.pendingDate = g.now().Format(dateLayout)
				log.Printf("DEBUG: MorningGate - qualifying idle span of %.1f hours, gate armed", idleDuration.Hours())
			}
		}
		g.idleSince = time.Time{}

	default:
		log.Printf("WARNING: MorningGate - unknown idle state %q ignored", state)
	}
}

// MaybeShow consumes pendingShow on the first qualifying monitored tab event
// of the day. The gate displays only when it was armed today, has not been
// shown today and the wall clock sits inside the configured morning window;
// otherwise pendingShow is cleared without display. An arm left unconsumed
// when the date rolls over expires: each morning must re-qualify with its own
// idle span.
func (g *MorningGate) MaybeShow() (*models.DisplayRequest, bool) {
	today := g.now().Format(dateLayout)

	// A gate displayed on an earlier day and never answered must not
	// suppress future mornings.
	if g.shown && g.shownDate != today {
		g.shown = false
	}

	if !g.pendingShow || g.shown {
		return nil, false
	}

	if g.pendingDate != today {
		g.pendingShow = false
		log.Printf("DEBUG: MorningGate - dropping stale pending show armed on %s", g.pendingDate)
		return nil, false
	}

	lastShown := store.GetString(g.store, keyLastShownDate, g.lastShownDate)
	if lastShown == today {
		g.pendingShow = false
		return nil, false
	}

	if !g.inMorningWindow() {
		g.pendingShow = false
		return nil, false
	}

	g.pendingShow = false
	g.shown = true
	g.shownDate = today

	style := store.GetString(g.store, keyMorningMessageStyle, defaults.DefaultMessageStyle)
	_, streakDays := g.ledger.Snapshot()

	return &models.DisplayRequest{
		Kind:           "morningGate",
		MorningMessage: models.MorningMessageFor(style, g.randFloat()),
		MorningStyle:   style,
		StreakDays:     streakDays,
	}, true
}

func (g *MorningGate) inMorningWindow() bool {
	startClock := store.GetString(g.store, keyMorningStart, defaults.DefaultMorningStart)
	endClock := store.GetString(g.store, keyMorningEnd, defaults.DefaultMorningEnd)

	start, err := utils.ParseClockMinutes(startClock)
	if err != nil {
		log.Printf("WARNING: MorningGate - bad morningStart %q: %v", startClock, err)
		start, _ = utils.ParseClockMinutes(defaults.DefaultMorningStart)
	}
	end, err := utils.ParseClockMinutes(endClock)
	if err != nil {
		log.Printf("WARNING: MorningGate - bad morningEnd %q: %v", endClock, err)
		end, _ = utils.ParseClockMinutes(defaults.DefaultMorningEnd)
	}

	now := g.now()
	current := now.Hour()*60 + now.Minute()
	return current >= start && current <= end
}

// Respond handles the single user response to a shown gate: persists today's
// date, rearms the gate, and feeds the streak for quickAction/surprise.
// Returns false when no gate was awaiting a response.
func (g *MorningGate) Respond(action string) bool {
	if !g.shown {
		return false
	}
	g.shown = false

	today := g.now().Format(dateLayout)
	g.lastShownDate = today
	if err := g.store.Set(keyLastShownDate, today); err != nil {
		log.Printf("ERROR: MorningGate - failed to persist lastShownDate: %v", err)
	}

	switch action {
	case "quickAction", "surprise":
		g.ledger.MaybeIncrementStreak()
	case "bypass":
		// Acknowledged, no streak credit.
	default:
		log.Printf("WARNING: MorningGate - unknown response action %q", action)
	}
	return true
}

// AwaitingResponse reports whether a gate is currently displayed.
func (g *MorningGate) AwaitingResponse() bool { return g.shown }

// Pending reports whether a display is armed for the next qualifying visit.
func (g *MorningGate) Pending() bool { return g.pendingShow }
