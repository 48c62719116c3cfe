package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/ports"
)

// TransfersHandler serves transfer history and status. Transfers are
// only ever created through the confirmed voice dialogue, so there is no
// POST here.
type TransfersHandler struct {
	service ports.TransferService
	log     *zap.Logger
}

func NewTransfersHandler(service ports.TransferService, log *zap.Logger) *TransfersHandler {
	return &TransfersHandler{
		service: service,
		log:     log,
	}
}

func (h *TransfersHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	transfer, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if transfer == nil || transfer.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transfer not found"})
	}
	return c.JSON(transfer)
}

func (h *TransfersHandler) GetLatest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	transfer, err := h.service.GetLatest(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if transfer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No transfers yet"})
	}
	return c.JSON(transfer)
}

func (h *TransfersHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	transfers, err := h.service.GetHistory(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(transfers)
}

func (h *TransfersHandler) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	balance, err := h.service.Balance(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"balance": balance, "asset": "eth"})
}
