package pdfsplit

import "strings"

// Defaults tuned for policy wordings: sliding word window with overlap so
// clauses that straddle a boundary appear whole in at least one chunk.
const (
	DefaultChunkWords   = 600
	DefaultOverlapWords = 100
	MinChunkWords       = 50
)

// SplitWords splits text into chunks of approximately 'chunkWords' words with
// 'overlapWords' words repeated between consecutive chunks. Fragments shorter
// than MinChunkWords are dropped; they are almost always page furniture.
func SplitWords(text string, chunkWords, overlapWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= chunkWords {
		if len(words) < MinChunkWords {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}

	step := chunkWords - overlapWords
	if step <= 0 {
		step = chunkWords // fallback if overlap >= chunk size
	}

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}
		if end-i >= MinChunkWords {
			chunks = append(chunks, strings.Join(words[i:end], " "))
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}

// Split applies the default window.
func Split(text string) []string {
	return SplitWords(text, DefaultChunkWords, DefaultOverlapWords)
}
