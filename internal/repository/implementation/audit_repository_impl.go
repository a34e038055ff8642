package implementation

import (
	"context"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/model"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) contract.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, record *entity.AuditRecord) error {
	m := &model.AuditRecord{
		Id:         record.Id,
		SessionId:  record.SessionId,
		ProductId:  record.ProductId,
		Question:   record.Question,
		Answer:     record.Answer,
		Language:   record.Language,
		Cached:     record.Cached,
		DebugTag:   record.DebugTag,
		DurationMs: record.DurationMs,
		CreatedAt:  record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.Id = m.Id
	return nil
}

func (r *AuditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error) {
	var models []*model.AuditRecord
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]*entity.AuditRecord, len(models))
	for i, m := range models {
		records[i] = toAuditEntity(m)
	}
	return records, nil
}

func (r *AuditRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Model(&model.AuditRecord{}).Count(&count).Error
	return count, err
}

func toAuditEntity(m *model.AuditRecord) *entity.AuditRecord {
	return &entity.AuditRecord{
		Id:         m.Id,
		SessionId:  m.SessionId,
		ProductId:  m.ProductId,
		Question:   m.Question,
		Answer:     m.Answer,
		Language:   m.Language,
		Cached:     m.Cached,
		DebugTag:   m.DebugTag,
		DurationMs: m.DurationMs,
		CreatedAt:  m.CreatedAt,
	}
}
