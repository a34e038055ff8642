package controller

import (
	"insurance-faq-be/internal/pkg/serverutils"
	"insurance-faq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProductController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	GetFAQs(ctx *fiber.Ctx) error
}

type productController struct {
	products service.IProductService
	faqs     service.IFAQService
}

func NewProductController(products service.IProductService, faqs service.IFAQService) IProductController {
	return &productController{
		products: products,
		faqs:     faqs,
	}
}

func (c *productController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/products")
	h.Get("/", c.GetAll)
	h.Get("/:id/faqs", c.GetFAQs)
}

func (c *productController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.products.GetAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Products", res))
}

func (c *productController) GetFAQs(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	res, err := c.faqs.GetByProduct(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("FAQ entries", res))
}
