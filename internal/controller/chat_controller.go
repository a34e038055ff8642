package controller

import (
	"bufio"
	"context"
	"encoding/json"

	"insurance-faq-be/internal/dto"
	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/internal/pkg/serverutils"
	"insurance-faq-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	AskStream(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatController(svc service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		service: svc,
		logger:  log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/ask", c.Ask)
	h.Post("/ask/stream", c.AskStream)
	h.Get("/suggestions/:productId", c.Suggestions)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer resolved", res))
}

// AskStream answers as NDJSON: a meta line, token lines, and an error line if
// generation breaks mid-stream.
func (c *chatController) AskStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	// The request context dies with the handler, so the stream runs on its
	// own context.
	streamCtx := context.Background()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(event interface{}) error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := w.Write(append(payload, '\n')); err != nil {
				return err
			}
			return w.Flush()
		}

		if err := c.service.AskStream(streamCtx, &req, emit); err != nil {
			c.logger.Warn("chat_controller", "stream ended early", map[string]interface{}{"error": err.Error()})
		}
	}))

	return nil
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	res, err := c.service.Suggestions(ctx.Context(), ctx.Params("productId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Suggested questions", res))
}
