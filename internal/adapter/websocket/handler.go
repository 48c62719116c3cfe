package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/ports"
)

// AssistantFactory resolves the assistant for a user; connections from
// the same user share one dialogue.
type AssistantFactory func(userID string) ports.Assistant

type Handler struct {
	hub           *Hub
	newAssistant  AssistantFactory
	minConfidence float64
	log           *zap.Logger
}

func NewHandler(hub *Hub, factory AssistantFactory, minConfidence float64, log *zap.Logger) *Handler {
	return &Handler{
		hub:           hub,
		newAssistant:  factory,
		minConfidence: minConfidence,
		log:           log,
	}
}

// HandleVoice owns one /ws/voice connection for its whole life. The
// read loop runs on this goroutine; fiber closes the connection as soon
// as the handler returns.
func (h *Handler) HandleVoice(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		h.log.Warn("Voice connection without an authenticated user")
		c.Close()
		return
	}

	session := newVoiceSession(h.hub, c, userID, h.minConfidence, h.log)
	session.assistant = h.newAssistant(userID)

	h.hub.register <- session
	h.log.Info("Voice session opened", zap.String("user_id", userID))

	go session.writePump()
	session.sendState()
	session.readPump()

	h.log.Info("Voice session closed", zap.String("user_id", userID))
}

// SetupVoiceRoutes mounts the voice websocket endpoint. Middlewares run
// after the upgrade check, so plain HTTP requests are rejected before
// any token work happens.
func SetupVoiceRoutes(app *fiber.App, handler *Handler, middlewares ...fiber.Handler) {
	app.Use("/ws/voice", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	for _, m := range middlewares {
		app.Use("/ws/voice", m)
	}

	app.Get("/ws/voice", websocket.New(handler.HandleVoice))
}
