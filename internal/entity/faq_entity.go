package entity

import (
	"time"

	"github.com/google/uuid"
)

// FAQEntry is an admin-curated question/answer pair. Question is stored in
// normalized form (trimmed, lowercased) so lookup is a literal match.
type FAQEntry struct {
	Id        uuid.UUID
	ProductId uuid.UUID
	Question  string
	Answer    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
