package mapper

import (
	"encoding/json"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type SemanticCacheMapper struct{}

func NewSemanticCacheMapper() *SemanticCacheMapper {
	return &SemanticCacheMapper{}
}

func (m *SemanticCacheMapper) ToEntity(e *model.SemanticCacheEntry) *entity.SemanticCacheEntry {
	if e == nil {
		return nil
	}

	var sources []string
	if len(e.Sources) > 0 {
		// A corrupt sources column degrades to an empty list, not an error.
		_ = json.Unmarshal(e.Sources, &sources)
	}

	return &entity.SemanticCacheEntry{
		Id:           e.Id,
		QuestionHash: e.QuestionHash,
		Question:     e.Question,
		Answer:       e.Answer,
		Sources:      sources,
		Embedding:    e.Embedding.Slice(),
		CreatedAt:    e.CreatedAt,
	}
}

func (m *SemanticCacheMapper) ToModel(e *entity.SemanticCacheEntry) *model.SemanticCacheEntry {
	if e == nil {
		return nil
	}

	sources, _ := json.Marshal(e.Sources)

	return &model.SemanticCacheEntry{
		Id:           e.Id,
		QuestionHash: e.QuestionHash,
		Question:     e.Question,
		Answer:       e.Answer,
		Sources:      datatypes.JSON(sources),
		Embedding:    pgvector.NewVector(e.Embedding),
		CreatedAt:    e.CreatedAt,
	}
}
