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
	gocache "github.com/patrickmn/go-cache"
)

const (
	catalogCacheKey = "product_catalog"
	catalogCacheTTL = 5 * time.Minute
)

type IProductService interface {
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]*dto.ProductResponse, error)
	// CatalogNames returns the active product names, cached in process. The
	// intent router calls this on every query.
	CatalogNames(ctx context.Context) []string
	// ResolveName maps a product id to its catalog name, "" when unknown.
	ResolveName(ctx context.Context, productID string) string
}

type productService struct {
	products contract.ProductRepository
	cache    *gocache.Cache
}

func NewProductService(products contract.ProductRepository) IProductService {
	return &productService{
		products: products,
		cache:    gocache.New(catalogCacheTTL, 10*time.Minute),
	}
}

func (s *productService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Delete(catalogCacheKey)
	return toProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	product.Name = req.Name
	product.Description = req.Description
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Delete(catalogCacheKey)
	return toProductResponse(product), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(catalogCacheKey)
	return nil
}

func (s *productService) GetAll(ctx context.Context) ([]*dto.ProductResponse, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		responses[i] = toProductResponse(p)
	}
	return responses, nil
}

func (s *productService) CatalogNames(ctx context.Context) []string {
	if cached, found := s.cache.Get(catalogCacheKey); found {
		return cached.([]string)
	}

	products, err := s.products.FindAll(ctx, specification.ActiveOnly{})
	if err != nil {
		// Stale-empty beats failing the query path.
		return nil
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	s.cache.Set(catalogCacheKey, names, gocache.DefaultExpiration)
	return names
}

func (s *productService) ResolveName(ctx context.Context, productID string) string {
	if productID == "" {
		return ""
	}
	id, err := uuid.Parse(productID)
	if err != nil {
		return ""
	}

	nameKey := "product_name:" + productID
	if cached, found := s.cache.Get(nameKey); found {
		return cached.(string)
	}

	product, err := s.products.FindOne(ctx, specification.ByID{ID: id})
	if err != nil || product == nil {
		return ""
	}
	s.cache.Set(nameKey, product.Name, gocache.DefaultExpiration)
	return product.Name
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Id:          p.Id.String(),
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}
