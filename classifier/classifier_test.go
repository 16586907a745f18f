package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"drama keyword", "This influencer drama is absolutely wild", true},
		{"viral keyword", "This clip went VIRAL overnight", true},
		{"slang phrase", "that take is no cap the worst", true},
		{"reaction bait", "His reaction to getting exposed", true},
		{"fire emoji", "new drop 🔥", true},
		{"skull is not flagged", "rip my schedule 💀", false},
		{"plain article", "A morning newspaper article about gardening techniques", false},
		{"empty", "", false},
		{"keyword inside word", "the virality study results", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.text))
		})
	}
}

func TestKeywordClassifierCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()

	assert.True(t, c.Classify("TRENDING now"))
	assert.True(t, c.Classify("Trending now"))
	assert.True(t, c.Classify("trending now"))
}
