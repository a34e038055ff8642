package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type SemanticCacheEntry struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionHash string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Question     string          `gorm:"type:text;not null"`
	Answer       string          `gorm:"type:text;not null"`
	Sources      datatypes.JSON  `gorm:"type:jsonb"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
}

func (SemanticCacheEntry) TableName() string {
	return "semantic_cache_entries"
}
