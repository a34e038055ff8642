package model

import (
	"time"

	"github.com/google/uuid"
)

type PolicyDocument struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName   string    `gorm:"type:varchar(512);not null"`
	FilePath   string    `gorm:"type:varchar(1024)"`
	Status     string    `gorm:"type:varchar(32);not null;default:'pending'"`
	ChunkCount int       `gorm:"default:0"`
	Error      string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (PolicyDocument) TableName() string {
	return "policy_documents"
}
