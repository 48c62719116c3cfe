package health

import "github.com/gofiber/fiber/v2"

// FiberHandler exposes the probes over HTTP under the paths Kubernetes
// and the compose healthchecks expect.
type FiberHandler struct {
	service *Service
}

func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

// RegisterRoutes mounts liveness and readiness under several aliases;
// the deploy manifests and local tooling never agreed on one spelling.
func (h *FiberHandler) RegisterRoutes(app *fiber.App) {
	for _, path := range []string{"/health", "/healthz", "/live", "/livez"} {
		app.Get(path, h.Health)
	}
	for _, path := range []string{"/ready", "/readyz"} {
		app.Get(path, h.Ready)
	}
}

// Health always answers 200 while the process can serve requests.
func (h *FiberHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.service.Health(c.Context()))
}

// Ready answers 503 when any probe is unhealthy so the load balancer
// stops routing here.
func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	report := h.service.Ready(c.Context())
	if !report.Ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
