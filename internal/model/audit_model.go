package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  string    `gorm:"type:varchar(255);index"`
	ProductId  string    `gorm:"type:varchar(255);index"`
	Question   string    `gorm:"type:text"`
	Answer     string    `gorm:"type:text"`
	Language   string    `gorm:"type:varchar(8)"`
	Cached     bool      `gorm:"default:false"`
	DebugTag   string    `gorm:"type:varchar(64)"`
	DurationMs int64     `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
