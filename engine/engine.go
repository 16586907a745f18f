// Package engine implements the engagement intervention engine: session
// tracking, content ratio aggregation, intervention selection, the morning
// gate, and the persistent progress ledger.
package engine

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/brainrotbuster/buster-go/classifier"
	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/models"
	"github.com/brainrotbuster/buster-go/store"
	"github.com/brainrotbuster/buster-go/utils"
)

const keyLeadEmail = "leadEmail"

// NudgeMailer sends the inbox-digest email behind the email intervention.
type NudgeMailer interface {
	SendInterventionEmail(to string, sessionMinutes float64, brainrotPercent, points int) error
}

// Config wires the engine's collaborators. Now, RandFloat and Schedule default
// to the real clock, math/rand and time.AfterFunc; tests inject deterministic
// substitutes.
type Config struct {
	Store          store.Store
	Classifier     classifier.Classifier
	Mailer         NudgeMailer
	Display        func(models.DisplayRequest)
	OnSnapshot     func(models.SessionSnapshot)
	MonitoredSites []string
	Selector       *SelectorConfig
	Now            func() time.Time
	RandFloat      func() float64
	Schedule       func(time.Duration, func()) func()
}

// Engine is the single logical actor reacting to platform events for one
// browsing profile. Every event is one locked state transition; the only
// suspension points are the snooze timer and the periodic trigger
// re-evaluation, both cancellable.
type Engine struct {
	mu sync.Mutex

	session  *SessionTracker
	tally    *ContentTally
	selector *InterventionSelector
	morning  *MorningGate
	ledger   *ProgressLedger

	store      store.Store
	classifier classifier.Classifier
	mailer     NudgeMailer
	display    func(models.DisplayRequest)
	onSnapshot func(models.SessionSnapshot)
	schedule   func(time.Duration, func()) func()
	now        func() time.Time

	currentTabID string
	stopLoop     chan struct{}
}

var GlobalInstance *Engine

// GetGlobalEngine returns the global engine instance
func GetGlobalEngine() *Engine {
	return GlobalInstance
}

func NewEngine(config Config) *Engine {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.RandFloat == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		config.RandFloat = rng.Float64
	}
	if config.Schedule == nil {
		config.Schedule = func(d time.Duration, fn func()) func() {
			timer := time.AfterFunc(d, fn)
			return func() { timer.Stop() }
		}
	}
	if config.MonitoredSites == nil {
		config.MonitoredSites = defaults.MonitoredSites
	}
	if config.Display == nil {
		config.Display = func(models.DisplayRequest) {}
	}
	if config.Classifier == nil {
		config.Classifier = classifier.NewKeywordClassifier()
	}

	selectorConfig := DefaultSelectorConfig()
	if config.Selector != nil {
		selectorConfig = *config.Selector
	}

	ledger := NewProgressLedger(config.Store, config.Now)

	return &Engine{
		session:    NewSessionTracker(config.MonitoredSites, config.Now),
		tally:      &ContentTally{},
		selector:   NewInterventionSelector(selectorConfig, ledger, config.RandFloat),
		morning:    NewMorningGate(config.Store, ledger, config.Now, config.RandFloat),
		ledger:     ledger,
		store:      config.Store,
		classifier: config.Classifier,
		mailer:     config.Mailer,
		display:    config.Display,
		onSnapshot: config.OnSnapshot,
		schedule:   config.Schedule,
		now:        config.Now,
	}
}

// OnTabActivated handles a tab switch.
func (e *Engine) OnTabActivated(tabID, url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handleTabEvent(tabID, url)
	e.notifySnapshot()
}

// OnTabNavigationComplete handles a finished navigation. Partial loads are
// ignored, matching the platform's "complete" status filter.
func (e *Engine) OnTabNavigationComplete(tabID, url, status string) {
	if status != "" && status != "complete" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handleTabEvent(tabID, url)
	e.notifySnapshot()
}

// handleTabEvent applies the session transition for a tab event. The morning
// gate check runs before session logic so the gate can claim the first
// qualifying visit of the day.
func (e *Engine) handleTabEvent(tabID, url string) {
	e.currentTabID = tabID

	monitored := e.session.IsMonitored(url)
	if monitored {
		if request, ok := e.morning.MaybeShow(); ok {
			request.TabID = tabID
			e.display(*request)
		}
	}

	started, monitored := e.session.OnNavigationOrActivation(url)
	if started {
		e.tally.Reset()
		log.Printf("DEBUG: Engine - session started on tab %s", tabID)
	}

	if !monitored {
		e.selector.ForceReset()
		return
	}

	e.evaluateTriggers()
}

// OnIdleStateChanged forwards device idle transitions to the morning gate.
func (e *Engine) OnIdleStateChanged(state string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.morning.OnIdleStateChanged(state)
}

// OnContent classifies one rendered content unit and records the verdict.
// Content arriving outside an active session is ignored.
func (e *Engine) OnContent(tabID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsActive() {
		return
	}

	e.tally.Record(e.classifier.Classify(text))
	e.evaluateTriggers()
	e.notifySnapshot()
}

// evaluateTriggers runs one selector tick and pushes any resulting offer.
func (e *Engine) evaluateTriggers() {
	intervention := e.selector.Evaluate(e.session.SessionMinutes(), e.tally.RatioPercent())
	if intervention == nil {
		return
	}

	e.display(models.DisplayRequest{
		Kind:            "intervention",
		TabID:           e.currentTabID,
		Intervention:    intervention,
		SessionMinutes:  e.session.SessionMinutes(),
		BrainrotPercent: e.tally.RatioPercent(),
	})
}

// OnInterventionResponse applies the user's reply to the offered intervention.
func (e *Engine) OnInterventionResponse(action string, helpful bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch action {
	case "dismiss":
		e.selector.Dismiss()

	case "engage":
		current := e.selector.Current()
		points := e.selector.Engage(helpful)
		if points > 0 && current != nil && current.Kind == "email" {
			e.sendNudgeEmail(points)
		}

	case "snooze":
		e.selector.Snooze(e.schedule, e.snoozeExpired)

	default:
		log.Printf("WARNING: Engine - unknown intervention response action %q", action)
	}

	e.notifySnapshot()
}

// snoozeExpired runs on the timer goroutine; it re-enters the engine lock
// before touching selector state.
func (e *Engine) snoozeExpired() {
	e.mu.Lock()
	defer e.mu.Unlock()

	intervention := e.selector.HandleSnoozeExpiry()
	if intervention == nil {
		return
	}

	e.display(models.DisplayRequest{
		Kind:            "intervention",
		TabID:           e.currentTabID,
		Intervention:    intervention,
		SessionMinutes:  e.session.SessionMinutes(),
		BrainrotPercent: e.tally.RatioPercent(),
	})
	e.notifySnapshot()
}

// OnMorningResponse applies the user's reply to the morning gate.
func (e *Engine) OnMorningResponse(action string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.morning.Respond(action) {
		log.Printf("DEBUG: Engine - morning response %q with no gate awaiting", action)
	}
	e.notifySnapshot()
}

// sendNudgeEmail fires the inbox digest asynchronously; failures only log.
func (e *Engine) sendNudgeEmail(points int) {
	if e.mailer == nil {
		return
	}

	leadEmail := store.GetString(e.store, keyLeadEmail, "")
	if leadEmail == "" {
		return
	}
	if defaults.AESKey != "" {
		decrypted, err := utils.Decrypt(leadEmail, defaults.AESKey)
		if err != nil {
			log.Printf("ERROR: Engine - failed to decrypt lead email: %v", err)
			return
		}
		leadEmail = decrypted
	}

	minutes := e.session.SessionMinutes()
	percent := e.tally.RatioPercent()
	go func() {
		if err := e.mailer.SendInterventionEmail(leadEmail, minutes, percent, points); err != nil {
			log.Printf("ERROR: Engine - failed to send intervention email: %v", err)
		}
	}()
}

// Snapshot returns the live view of engine state for the dashboard.
func (e *Engine) Snapshot() models.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.SessionSnapshot {
	points, streakDays := e.ledger.Snapshot()
	engaged, helpful := e.selector.Telemetry()

	return models.SessionSnapshot{
		IsActive:            e.session.IsActive(),
		SessionMinutes:      e.session.SessionMinutes(),
		TotalMinutes:        e.session.TotalMinutes(),
		ContentAnalyzed:     e.tally.Analyzed(),
		BrainrotCount:       e.tally.Flagged(),
		BrainrotPercent:     e.tally.RatioPercent(),
		Points:              points,
		StreakDays:          streakDays,
		EngagedCount:        engaged,
		HelpfulCount:        helpful,
		CurrentIntervention: e.selector.Current(),
	}
}

func (e *Engine) notifySnapshot() {
	if e.onSnapshot != nil {
		e.onSnapshot(e.snapshotLocked())
	}
}

// StartEvaluationLoop periodically re-evaluates trigger eligibility so a
// qualifying session is interrupted even without fresh content events.
func (e *Engine) StartEvaluationLoop(interval time.Duration) {
	e.stopLoop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.mu.Lock()
				if e.session.IsActive() {
					e.evaluateTriggers()
				}
				e.mu.Unlock()
			case <-e.stopLoop:
				return
			}
		}
	}()
}

// Stop halts the evaluation loop and cancels any pending snooze timer. Safe
// to call more than once; shutdown hooks tend to fire from several signals.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopLoop != nil {
		close(e.stopLoop)
		e.stopLoop = nil
	}
	e.selector.ForceReset()
}
