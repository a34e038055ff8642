package langdetect

import (
	"strings"
	"unicode"
)

const (
	LangEnglish = "en"
	LangHindi   = "hi"
)

// Romanized Hindi words common in insurance questions. Whole-word match only,
// several of them ("me", "to") collide with English otherwise.
var hinglishMarkers = map[string]struct{}{
	"hai":     {},
	"kya":     {},
	"kaise":   {},
	"kitna":   {},
	"kitni":   {},
	"karna":   {},
	"chahiye": {},
	"milega":  {},
	"hoga":    {},
	"nahi":    {},
	"paisa":   {},
	"bima":    {},
}

// Detect returns "hi" for Devanagari script or Hinglish marker words,
// otherwise "en". A caller-provided override wins.
func Detect(text, override string) string {
	if override != "" {
		return override
	}

	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return LangHindi
		}
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,?!;:'\"")
		if _, ok := hinglishMarkers[word]; ok {
			return LangHindi
		}
	}
	return LangEnglish
}
