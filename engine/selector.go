package engine

import (
	"log"
	"time"

	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/models"
	"github.com/brainrotbuster/buster-go/utils"
)

// SelectorState enumerates the intervention state machine.
type SelectorState int

const (
	SelectorIdle SelectorState = iota
	SelectorOffered
	SelectorSnoozed
)

func (s SelectorState) String() string {
	switch s {
	case SelectorOffered:
		return "offered"
	case SelectorSnoozed:
		return "snoozed"
	default:
		return "idle"
	}
}

// SelectorConfig names every tuning knob of the trigger logic so nothing is a
// hard-coded literal.
type SelectorConfig struct {
	MinSessionMinutes       float64
	MinBrainrotPercent      int
	TriggerProbability      float64
	StreakProbability       float64
	SnoozeRerollProbability float64
	SnoozeDelay             time.Duration
	PointsLow               int
	PointsMedium            int
	PointsHigh              int
}

// DefaultSelectorConfig builds the config from the environment-backed defaults.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		MinSessionMinutes:       defaults.MinSessionMinutes,
		MinBrainrotPercent:      defaults.MinBrainrotPercent,
		TriggerProbability:      defaults.TriggerProbability,
		StreakProbability:       defaults.StreakProbability,
		SnoozeRerollProbability: defaults.SnoozeRerollProbability,
		SnoozeDelay:             defaults.SnoozeDelay,
		PointsLow:               defaults.PointsLow,
		PointsMedium:            defaults.PointsMedium,
		PointsHigh:              defaults.PointsHigh,
	}
}

// InterventionSelector is the probabilistic state machine deciding whether and
// which intervention to raise. It is not safe for concurrent use; the owning
// Engine serializes all calls, including snooze expiry.
type InterventionSelector struct {
	config    SelectorConfig
	ledger    *ProgressLedger
	randFloat func() float64

	state        SelectorState
	current      *models.Intervention
	cancelSnooze func()

	engagedCount int
	helpfulCount int
}

func NewInterventionSelector(config SelectorConfig, ledger *ProgressLedger, randFloat func() float64) *InterventionSelector {
	return &InterventionSelector{
		config:    config,
		ledger:    ledger,
		randFloat: randFloat,
	}
}

// Evaluate runs one trigger tick. It only ever offers from Idle: eligibility
// requires sessionMinutes > MinSessionMinutes and ratioPercent >
// MinBrainrotPercent, then a trigger-probability draw throttles nagging so a
// qualifying session isn't interrupted on every check.
func (s *InterventionSelector) Evaluate(sessionMinutes float64, ratioPercent int) *models.Intervention {
	if s.state != SelectorIdle {
		return nil
	}
	if sessionMinutes <= s.config.MinSessionMinutes || ratioPercent <= s.config.MinBrainrotPercent {
		return nil
	}
	if s.randFloat() >= s.config.TriggerProbability {
		return nil
	}

	intervention := s.chooseKind(sessionMinutes)
	intervention.ID = utils.GenerateULID()

	s.state = SelectorOffered
	s.current = &intervention
	return &intervention
}

// chooseKind picks the intervention by session-length tier: short sessions get
// a gentle nudge, longer ones escalate to email/reading, the longest to
// reading/challenge.
func (s *InterventionSelector) chooseKind(sessionMinutes float64) models.Intervention {
	switch {
	case sessionMinutes < 20:
		return models.InterventionCatalog["nudge"]
	case sessionMinutes < 30:
		if s.randFloat() < 0.5 {
			return models.InterventionCatalog["email"]
		}
		return models.InterventionCatalog["reading"]
	default:
		if s.randFloat() < 0.5 {
			return models.InterventionCatalog["reading"]
		}
		return models.InterventionCatalog["challenge"]
	}
}

// Dismiss returns to Idle with no ledger mutation. Calling it while already
// Idle is a no-op.
func (s *InterventionSelector) Dismiss() {
	if s.state != SelectorOffered {
		return
	}
	s.state = SelectorIdle
	s.current = nil
}

// Engage awards points by severity, rolls for a streak increment, and settles
// to Idle. The helpful flag is recorded for telemetry only. Returns the points
// awarded (0 when nothing was offered).
func (s *InterventionSelector) Engage(helpful bool) int {
	if s.state != SelectorOffered || s.current == nil {
		return 0
	}

	points := s.pointsFor(s.current.Severity)
	s.ledger.AwardPoints(points)

	if s.randFloat() < s.config.StreakProbability {
		s.ledger.MaybeIncrementStreak()
	}

	s.engagedCount++
	if helpful {
		s.helpfulCount++
	}

	s.state = SelectorIdle
	s.current = nil
	return points
}

func (s *InterventionSelector) pointsFor(severity string) int {
	switch severity {
	case "high":
		return s.config.PointsHigh
	case "medium":
		return s.config.PointsMedium
	default:
		return s.config.PointsLow
	}
}

// Snooze clears the current intervention immediately so the display is
// unblocked and schedules the re-roll. The schedule function must deliver the
// callback after SnoozeDelay and return a cancel.
func (s *InterventionSelector) Snooze(schedule func(time.Duration, func()) func(), onExpiry func()) {
	if s.state != SelectorOffered {
		return
	}
	s.current = nil
	s.state = SelectorSnoozed
	s.cancelSnooze = schedule(s.config.SnoozeDelay, onExpiry)
}

// HandleSnoozeExpiry re-rolls after the snooze delay: with the configured
// probability the nudge is re-offered, otherwise the selector settles to Idle.
func (s *InterventionSelector) HandleSnoozeExpiry() *models.Intervention {
	if s.state != SelectorSnoozed {
		return nil
	}
	s.cancelSnooze = nil

	if s.randFloat() < s.config.SnoozeRerollProbability {
		intervention := models.InterventionCatalog["nudge"]
		intervention.ID = utils.GenerateULID()
		s.state = SelectorOffered
		s.current = &intervention
		return &intervention
	}

	s.state = SelectorIdle
	return nil
}

// ForceReset cancels any pending snooze timer and returns to Idle. Called when
// the tab leaves the monitored site: an intervention must never be presented
// against a page the user already left.
func (s *InterventionSelector) ForceReset() {
	if s.cancelSnooze != nil {
		s.cancelSnooze()
		s.cancelSnooze = nil
	}
	if s.state != SelectorIdle {
		log.Printf("DEBUG: InterventionSelector - forced reset from %s", s.state)
	}
	s.state = SelectorIdle
	s.current = nil
}

func (s *InterventionSelector) State() SelectorState { return s.state }

// Current returns the outstanding intervention, nil when none is offered.
func (s *InterventionSelector) Current() *models.Intervention { return s.current }

// Telemetry returns the engaged/helpful counters.
func (s *InterventionSelector) Telemetry() (engaged, helpful int) {
	return s.engagedCount, s.helpfulCount
}
