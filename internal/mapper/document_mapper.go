package mapper

import (
	"time"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.PolicyDocument) *entity.PolicyDocument {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.PolicyDocument{
		Id:         d.Id,
		ProductId:  d.ProductId,
		FileName:   d.FileName,
		FilePath:   d.FilePath,
		Status:     d.Status,
		ChunkCount: d.ChunkCount,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.PolicyDocument) *model.PolicyDocument {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.PolicyDocument{
		Id:         d.Id,
		ProductId:  d.ProductId,
		FileName:   d.FileName,
		FilePath:   d.FilePath,
		Status:     d.Status,
		ChunkCount: d.ChunkCount,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.PolicyDocument) []*entity.PolicyDocument {
	entities := make([]*entity.PolicyDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	return &entity.DocumentChunk{
		Id:          c.Id,
		DocumentId:  c.DocumentId,
		ProductName: c.ProductName,
		OriginFile:  c.OriginFile,
		Text:        c.Text,
		ChunkIndex:  c.ChunkIndex,
		WordCount:   c.WordCount,
		Embedding:   c.Embedding.Slice(),
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	return &model.DocumentChunk{
		Id:          c.Id,
		DocumentId:  c.DocumentId,
		ProductName: c.ProductName,
		OriginFile:  c.OriginFile,
		Text:        c.Text,
		ChunkIndex:  c.ChunkIndex,
		WordCount:   c.WordCount,
		Embedding:   pgvector.NewVector(c.Embedding),
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.DocumentChunk) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.DocumentChunk) []*model.DocumentChunk {
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
