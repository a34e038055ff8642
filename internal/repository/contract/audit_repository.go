package contract

import (
	"context"

	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/repository/specification"
)

type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
