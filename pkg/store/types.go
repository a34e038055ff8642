package store

// Chunk is the unit of retrieval: a bounded span of policy text with the
// metadata attached at ingestion time. Distance is the cosine distance
// reported by the index for the current query (0 identical, 2 opposite).
type Chunk struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	ProductName string  `json:"product_name"`
	OriginFile  string  `json:"origin_file"`
	ChunkIndex  int     `json:"chunk_index"`
	WordCount   int     `json:"word_count"`
	Distance    float64 `json:"distance"`
}

// CachedAnswer is the payload stored in both cache tiers.
type CachedAnswer struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Question string   `json:"question,omitempty"` // original phrasing, semantic tier only
}

// HistoryEntry is one turn of session history.
type HistoryEntry struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
