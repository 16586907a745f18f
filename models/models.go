package models

import (
	"fmt"
	"sync"
)

// TabEventRequest carries a tab activation or navigation event from the extension.
type TabEventRequest struct {
	TabID  string `json:"tabId"`
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// IdleEventRequest carries a device idle-state transition.
type IdleEventRequest struct {
	State string `json:"state"`
}

// ContentEventRequest carries a rendered content excerpt for classification.
type ContentEventRequest struct {
	TabID string `json:"tabId"`
	Text  string `json:"text"`
}

// InterventionResponseRequest is the user's reply to a shown intervention.
type InterventionResponseRequest struct {
	Action  string `json:"action"` // dismiss | engage | snooze
	Helpful *bool  `json:"helpful,omitempty"`
}

// MorningResponseRequest is the user's reply to the morning gate.
type MorningResponseRequest struct {
	Action string `json:"action"` // bypass | quickAction | surprise
}

type LoginRequest struct {
	Password string `json:"password"`
}

// SettingsRequest updates persisted settings; nil fields are left unchanged.
type SettingsRequest struct {
	IdleThresholdHours  *int    `json:"idleThresholdHours,omitempty"`
	MorningStart        *string `json:"morningStart,omitempty"`
	MorningEnd          *string `json:"morningEnd,omitempty"`
	MorningMessageStyle *string `json:"morningMessageStyle,omitempty"`
	LeadEmail           *string `json:"leadEmail,omitempty"`
}

// Intervention is a single-shot interruption offered during a qualifying session.
// Immutable once chosen.
type Intervention struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"` // nudge | email | reading | challenge
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action,omitempty"`
	Severity string `json:"severity"` // low | medium | high
}

// DisplayRequest is pushed to the extension's display layer.
type DisplayRequest struct {
	Kind            string        `json:"kind"` // intervention | morningGate
	TabID           string        `json:"tabId,omitempty"`
	Intervention    *Intervention `json:"intervention,omitempty"`
	MorningMessage  string        `json:"morningMessage,omitempty"`
	MorningStyle    string        `json:"morningStyle,omitempty"`
	SessionMinutes  float64       `json:"sessionMinutes,omitempty"`
	BrainrotPercent int           `json:"brainrotPercent,omitempty"`
	StreakDays      int           `json:"streakDays,omitempty"`
}

// SessionSnapshot is the live dashboard view of engine state.
type SessionSnapshot struct {
	IsActive            bool          `json:"isActive"`
	SessionMinutes      float64       `json:"sessionMinutes"`
	TotalMinutes        float64       `json:"totalMinutes"`
	ContentAnalyzed     int           `json:"contentAnalyzed"`
	BrainrotCount       int           `json:"brainrotCount"`
	BrainrotPercent     int           `json:"brainrotPercent"`
	Points              int           `json:"points"`
	StreakDays          int           `json:"streakDays"`
	EngagedCount        int           `json:"engagedCount"`
	HelpfulCount        int           `json:"helpfulCount"`
	CurrentIntervention *Intervention `json:"currentIntervention,omitempty"`
}

type SSEBroadcaster struct {
	clients []chan string
	mu      sync.Mutex
}

func (b *SSEBroadcaster) AddClient() chan string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan string, 16)
	b.clients = append(b.clients, ch)
	return ch
}

func (b *SSEBroadcaster) RemoveClient(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, client := range b.clients {
		if client == ch {
			b.clients = append(b.clients[:i], b.clients[i+1:]...)
			close(ch)
			break
		}
	}
}

func (b *SSEBroadcaster) Broadcast(eventType, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	message := fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, data)
	for _, ch := range b.clients {
		select {
		case ch <- message:
		default:
			// Slow client; drop rather than stall the engine.
		}
	}
}

var Broadcaster = &SSEBroadcaster{}
