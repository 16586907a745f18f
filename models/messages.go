package models

// InterventionCatalog holds the copy for each intervention kind. The selector
// stamps an ID onto a copy when it offers one.
var InterventionCatalog = map[string]Intervention{
	"nudge": {
		Kind:     "nudge",
		Title:    "Vibe Check! ✨",
		Message:  "Your brain called - it wants some quality content! 📞",
		Severity: "low",
	},
	"email": {
		Kind:     "email",
		Title:    "Inbox Alert! 📧",
		Message:  "Plot twist: Your emails might be more interesting than this feed!",
		Action:   "Jump to Gmail",
		Severity: "medium",
	},
	"reading": {
		Kind:     "reading",
		Title:    "Level Up Time! 🧠",
		Message:  "Ready to feed your brain some premium content?",
		Action:   "Let's Read",
		Severity: "medium",
	},
	"challenge": {
		Kind:     "challenge",
		Title:    "Quick Win Challenge! 🎯",
		Message:  "Time for a dopamine hit from actually accomplishing something!",
		Action:   "Surprise Me",
		Severity: "high",
	},
}

// MorningMessages holds the per-style message pools for the morning gate.
var MorningMessages = map[string][]string{
	"sassy": {
		"Scrolling already? Go touch grass! 🌱",
		"Brainrot at 7 AM? Brush those teeth! 🦷",
		"The sun just came up and you're doom-scrolling? Really? ☀️",
		"Morning person or morning doom-scroller? Choose wisely! 😏",
	},
	"chill": {
		"Good morning! Maybe start with something peaceful? 🌅",
		"Hey there, early bird! How about we ease into the day? ☕",
		"Morning vibes check - ready for something mindful? 🧘",
		"The day is fresh - let's keep that energy clean! ✨",
	},
	"meme": {
		"POV: You woke up and chose chaos 💀",
		"Morning brainrot speedrun any% 🏃‍♂️",
		"Tell me you're addicted without telling me... 📱",
		"When the algorithm knows you better than your alarm clock 🤖",
	},
}

// MorningMessageFor picks a message from the pool for the given style, falling
// back to sassy for unknown styles. pick is a uniform draw in [0,1).
func MorningMessageFor(style string, pick float64) string {
	pool, ok := MorningMessages[style]
	if !ok {
		pool = MorningMessages["sassy"]
	}
	idx := int(pick * float64(len(pool)))
	if idx >= len(pool) {
		idx = len(pool) - 1
	}
	return pool[idx]
}
