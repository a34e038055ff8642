package implementation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/mapper"
	"insurance-faq-be/internal/model"
	"insurance-faq-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SemanticCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SemanticCacheMapper
}

func NewSemanticCacheRepository(db *gorm.DB) contract.SemanticCacheRepository {
	return &SemanticCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewSemanticCacheMapper(),
	}
}

// QuestionHash derives the dedup key for a cached question.
func QuestionHash(question string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(question))))
	return hex.EncodeToString(sum[:])
}

func (r *SemanticCacheRepositoryImpl) Upsert(ctx context.Context, entry *entity.SemanticCacheEntry) error {
	if entry.QuestionHash == "" {
		entry.QuestionHash = QuestionHash(entry.Question)
	}
	m := r.mapper.ToModel(entry)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"question", "answer", "sources", "embedding"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *SemanticCacheRepositoryImpl) Nearest(ctx context.Context, embedding []float32) (*entity.SemanticCacheEntry, float64, bool, error) {
	type result struct {
		model.SemanticCacheEntry
		Distance float64
	}
	var res result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("semantic_cache_entries").
		Select("semantic_cache_entries.*, embedding <=> ? as distance", queryVector).
		Order("distance ASC").
		Limit(1).
		Take(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	return r.mapper.ToEntity(&res.SemanticCacheEntry), res.Distance, true, nil
}

func (r *SemanticCacheRepositoryImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE semantic_cache_entries").Error
}
