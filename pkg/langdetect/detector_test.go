package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		override string
		want     string
	}{
		{"plain english", "What is the waiting period?", "", LangEnglish},
		{"devanagari", "प्रीमियम कितना है", "", LangHindi},
		{"hinglish marker", "premium kitna hai?", "", LangHindi},
		{"hinglish with punctuation", "claim kaise karna hai?", "", LangHindi},
		{"marker inside word does not count", "maintenance of the policy", "", LangEnglish},
		{"override wins", "premium kitna hai", "en", LangEnglish},
		{"override to hindi", "what is covered", "hi", LangHindi},
		{"empty text", "", "", LangEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text, tt.override))
		})
	}
}
