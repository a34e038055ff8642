package mapper

import (
	"time"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/model"
)

type FAQMapper struct{}

func NewFAQMapper() *FAQMapper {
	return &FAQMapper{}
}

func (m *FAQMapper) ToEntity(f *model.FAQEntry) *entity.FAQEntry {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.FAQEntry{
		Id:        f.Id,
		ProductId: f.ProductId,
		Question:  f.Question,
		Answer:    f.Answer,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FAQMapper) ToModel(f *entity.FAQEntry) *model.FAQEntry {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.FAQEntry{
		Id:        f.Id,
		ProductId: f.ProductId,
		Question:  f.Question,
		Answer:    f.Answer,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FAQMapper) ToEntities(entries []*model.FAQEntry) []*entity.FAQEntry {
	entities := make([]*entity.FAQEntry, len(entries))
	for i, f := range entries {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
