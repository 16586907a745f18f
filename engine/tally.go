package engine

import (
	"log"
	"math"
)

// ContentTally maintains the running brainrot ratio for the current session.
// It is reset whenever a new session starts so stale history from a prior
// session cannot bias a fresh one.
type ContentTally struct {
	analyzed int
	flagged  int
}

func (t *ContentTally) Record(isFlagged bool) {
	t.analyzed++
	if isFlagged {
		t.flagged++
	}
}

func (t *ContentTally) Reset() {
	t.analyzed = 0
	t.flagged = 0
}

// RatioPercent returns round(100 * flagged/analyzed), or 0 when nothing has
// been analyzed. A flagged > analyzed invariant breach is fatal to the tally
// only: it resets and logs, never propagates.
func (t *ContentTally) RatioPercent() int {
	if t.flagged > t.analyzed {
		log.Printf("ERROR: ContentTally - invariant violation (flagged=%d > analyzed=%d), resetting tally", t.flagged, t.analyzed)
		t.Reset()
		return 0
	}
	if t.analyzed == 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.flagged) / float64(t.analyzed)))
}

func (t *ContentTally) Analyzed() int { return t.analyzed }
func (t *ContentTally) Flagged() int  { return t.flagged }
