package service

import (
	"context"
	"time"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/entity"
	"insurance-faq-be/internal/repository/contract"
	"insurance-faq-be/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFAQService interface {
	Create(ctx context.Context, req *dto.CreateFAQRequest) (*dto.FAQResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByProduct(ctx context.Context, productId uuid.UUID) ([]*dto.FAQResponse, error)
}

type faqService struct {
	faqs     contract.FAQRepository
	products contract.ProductRepository
}

func NewFAQService(faqs contract.FAQRepository, products contract.ProductRepository) IFAQService {
	return &faqService{
		faqs:     faqs,
		products: products,
	}
}

func (s *faqService) Create(ctx context.Context, req *dto.CreateFAQRequest) (*dto.FAQResponse, error) {
	productId, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	product, err := s.products.FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	entry := &entity.FAQEntry{
		Id:        uuid.New(),
		ProductId: productId,
		Question:  req.Question,
		Answer:    req.Answer,
		CreatedAt: time.Now(),
	}
	if err := s.faqs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return toFAQResponse(entry), nil
}

func (s *faqService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error) {
	entry, err := s.faqs.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "faq entry not found")
	}

	entry.Question = req.Question
	entry.Answer = req.Answer
	if err := s.faqs.Update(ctx, entry); err != nil {
		return nil, err
	}
	return toFAQResponse(entry), nil
}

func (s *faqService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.faqs.Delete(ctx, id)
}

func (s *faqService) GetByProduct(ctx context.Context, productId uuid.UUID) ([]*dto.FAQResponse, error) {
	entries, err := s.faqs.FindAll(ctx, specification.ByProductID{ProductID: productId})
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.FAQResponse, len(entries))
	for i, e := range entries {
		responses[i] = toFAQResponse(e)
	}
	return responses, nil
}

func toFAQResponse(e *entity.FAQEntry) *dto.FAQResponse {
	return &dto.FAQResponse{
		Id:        e.Id.String(),
		ProductID: e.ProductId.String(),
		Question:  e.Question,
		Answer:    e.Answer,
		CreatedAt: e.CreatedAt,
	}
}
