package controller

import (
	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/pkg/serverutils"
	"insurance-faq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
}

type adminController struct {
	admin     service.IAdminService
	products  service.IProductService
	faqs      service.IFAQService
	ingestion service.IIngestionService
}

func NewAdminController(
	admin service.IAdminService,
	products service.IProductService,
	faqs service.IFAQService,
	ingestion service.IIngestionService,
) IAdminController {
	return &adminController{
		admin:     admin,
		products:  products,
		faqs:      faqs,
		ingestion: ingestion,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)

	h.Post("/products", c.CreateProduct)
	h.Put("/products/:id", c.UpdateProduct)
	h.Delete("/products/:id", c.DeleteProduct)

	h.Post("/faqs", c.CreateFAQ)
	h.Put("/faqs/:id", c.UpdateFAQ)
	h.Delete("/faqs/:id", c.DeleteFAQ)

	h.Post("/documents", c.UploadDocument)
	h.Get("/documents", c.GetDocuments)

	h.Post("/caches/clear", c.ClearCaches)
	h.Get("/audit", c.GetAuditLog)
}

func (c *adminController) CreateProduct(ctx *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.products.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Product created", res))
}

func (c *adminController) UpdateProduct(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req dto.UpdateProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.products.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Product updated", res))
}

func (c *adminController) DeleteProduct(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := c.products.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Product deleted", nil))
}

func (c *adminController) CreateFAQ(ctx *fiber.Ctx) error {
	var req dto.CreateFAQRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.faqs.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("FAQ entry created", res))
}

func (c *adminController) UpdateFAQ(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid faq id")
	}

	var req dto.UpdateFAQRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.faqs.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("FAQ entry updated", res))
}

func (c *adminController) DeleteFAQ(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid faq id")
	}

	if err := c.faqs.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("FAQ entry deleted", nil))
}

func (c *adminController) UploadDocument(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("document")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "PDF file is required")
	}
	productID := ctx.FormValue("product_id")

	res, err := c.ingestion.Upload(ctx.Context(), productID, file, ctx.SaveFile)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *adminController) GetDocuments(ctx *fiber.Ctx) error {
	res, err := c.ingestion.GetDocuments(ctx.Context(), ctx.Query("product_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", res))
}

func (c *adminController) ClearCaches(ctx *fiber.Ctx) error {
	res, err := c.admin.ClearCaches(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Caches cleared", res))
}

func (c *adminController) GetAuditLog(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.admin.GetAuditLog(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit log", res))
}
