package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

type ContactsHandler struct {
	service ports.ContactService
	log     *zap.Logger
}

func NewContactsHandler(service ports.ContactService, log *zap.Logger) *ContactsHandler {
	return &ContactsHandler{
		service: service,
		log:     log,
	}
}

type AddContactRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *ContactsHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	contacts, err := h.service.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(contacts)
}

func (h *ContactsHandler) Add(c *fiber.Ctx) error {
	var req AddContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	userID := c.Locals("user_id").(string)
	contact := domain.Contact{
		UserID:  userID,
		Name:    req.Name,
		Address: req.Address,
	}

	if err := h.service.Add(c.Context(), &contact); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *ContactsHandler) Remove(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	contactID := c.Params("id")

	if err := h.service.Remove(c.Context(), userID, contactID); err != nil {
		if err.Error() == "contact not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "contact removed"})
}

// Resolve answers "who would the matcher pick for this name" so the UI
// can preview fuzzy matches.
func (h *ContactsHandler) Resolve(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name query parameter is required"})
	}

	contact, err := h.service.FindByName(c.Context(), userID, name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if contact == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No matching contact"})
	}
	return c.JSON(contact)
}
