package model

import (
	"time"

	"github.com/google/uuid"
)

type FAQEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId uuid.UUID `gorm:"type:uuid;not null;index:idx_faq_product_question,unique"`
	Question  string    `gorm:"type:text;not null;index:idx_faq_product_question,unique"` // normalized form
	Answer    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (FAQEntry) TableName() string {
	return "faq_entries"
}
