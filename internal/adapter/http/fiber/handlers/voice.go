package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/service/voice"
)

// VoiceHandler drives a user's dialogue over plain HTTP: one finalized
// transcript in, one turn result out. It shares sessions with the
// websocket transport, so either can continue a dialogue the other
// started.
type VoiceHandler struct {
	sessions      *voice.Registry
	minConfidence float64
	log           *zap.Logger
}

func NewVoiceHandler(sessions *voice.Registry, minConfidence float64, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		sessions:      sessions,
		minConfidence: minConfidence,
		log:           log,
	}
}

type UtteranceRequest struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (h *VoiceHandler) Utterance(c *fiber.Ctx) error {
	var req UtteranceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	userID := c.Locals("user_id").(string)
	assistant := h.sessions.Get(userID)

	// Low-confidence recognition counts as silence, same as on the socket.
	if req.Confidence > 0 && req.Confidence < h.minConfidence {
		assistant.HandleNoSpeech(c.Context())
		snapshot := assistant.Snapshot()
		return c.JSON(domain.TurnResult{Intent: domain.IntentFreeText, Step: snapshot.Step})
	}

	result, err := assistant.HandleUtterance(c.Context(), req.Text)
	if err != nil {
		h.log.Error("Failed to process utterance", zap.String("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process utterance"})
	}

	return c.JSON(result)
}

func (h *VoiceHandler) Dialogue(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	return c.JSON(h.sessions.Get(userID).Snapshot())
}

func (h *VoiceHandler) Cancel(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	assistant := h.sessions.Get(userID)

	if err := assistant.Cancel(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(assistant.Snapshot())
}
