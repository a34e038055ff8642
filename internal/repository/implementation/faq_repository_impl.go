package implementation

import (
	"context"
	"errors"
	"strings"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/mapper"
	"insurance-faq-be/internal/model"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FAQMapper
}

func NewFAQRepository(db *gorm.DB) contract.FAQRepository {
	return &FAQRepositoryImpl{
		db:     db,
		mapper: mapper.NewFAQMapper(),
	}
}

func (r *FAQRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FAQRepositoryImpl) Create(ctx context.Context, entry *entity.FAQEntry) error {
	entry.Question = normalizeQuestion(entry.Question)
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *FAQRepositoryImpl) Update(ctx context.Context, entry *entity.FAQEntry) error {
	entry.Question = normalizeQuestion(entry.Question)
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *FAQRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FAQEntry{}, id).Error
}

func (r *FAQRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error) {
	var m model.FAQEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FAQRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error) {
	var models []*model.FAQEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FAQRepositoryImpl) FindAnswer(ctx context.Context, productId uuid.UUID, question string) (string, bool, error) {
	var m model.FAQEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productId).
		Where("question = ?", normalizeQuestion(question)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Answer, true, nil
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
