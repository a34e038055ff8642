package contract

import (
	"context"

	"insurance-faq-be/internal/entity"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
}
