// Package classifier flags low-value content units with a keyword heuristic.
package classifier

import "regexp"

// Classifier returns a verdict for a unit of rendered content. The engine only
// consumes the boolean; the heuristic behind it is replaceable.
type Classifier interface {
	Classify(text string) bool
}

// KeywordClassifier matches slang, drama and engagement-bait patterns. This is
// a deliberately simple stand-in for real content understanding.
type KeywordClassifier struct {
	patterns []*regexp.Regexp
}

func NewKeywordClassifier() *KeywordClassifier {
	raw := []string{
		`(?i)\b(viral|trending|controversial|drama|beef|roast)\b`,
		`(?i)\b(influencer|tiktoker|youtuber)\b`,
		`(?i)\b(cringe|sus|cap|no cap|fr fr|periodt)\b`,
		`(?i)\b(reaction|response|exposed|cancelled)\b`,
		`[🔥💯😂😭🤡]`,
	}

	patterns := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &KeywordClassifier{patterns: patterns}
}

func (c *KeywordClassifier) Classify(text string) bool {
	for _, pattern := range c.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
