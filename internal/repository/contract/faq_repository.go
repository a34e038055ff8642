package contract

import (
	"context"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FAQRepository interface {
	Create(ctx context.Context, entry *entity.FAQEntry) error
	Update(ctx context.Context, entry *entity.FAQEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FAQEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FAQEntry, error)
	// FindAnswer resolves a curated answer by literal normalized question.
	FindAnswer(ctx context.Context, productId uuid.UUID, question string) (string, bool, error)
}
