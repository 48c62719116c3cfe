package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/ports"
)

// WalletHandler creates or imports the wallet a user's transfers are sent
// from. The voice assistant points users here when they ask for a wallet.
type WalletHandler struct {
	service ports.TransferService
	log     *zap.Logger
}

func NewWalletHandler(service ports.TransferService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log,
	}
}

type ImportWalletRequest struct {
	Address string `json:"address"`
}

func (h *WalletHandler) Setup(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	user, err := h.service.SetupWallet(c.Context(), userID)
	if err != nil {
		if strings.Contains(err.Error(), "already has a wallet") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"wallet_address": user.WalletAddress,
		"network":        user.Network,
	})
}

func (h *WalletHandler) Import(c *fiber.Ctx) error {
	var req ImportWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID := c.Locals("user_id").(string)

	user, err := h.service.ImportWallet(c.Context(), userID, req.Address)
	if err != nil {
		if strings.Contains(err.Error(), "not a valid") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"wallet_address": user.WalletAddress,
		"network":        user.Network,
	})
}
