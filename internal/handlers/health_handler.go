package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-scout/internal/stages"
)

const healthTimeout = 5 * time.Second

// HealthChecker reports whether the reasoning model can be reached.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Model() string
}

type HealthHandler struct {
	llm HealthChecker
}

func NewHealthHandler(llm HealthChecker) *HealthHandler {
	return &HealthHandler{llm: llm}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	llm := "connected"
	if err := h.llm.HealthCheck(ctx); err != nil {
		llm = "disconnected"
	}

	return c.JSON(fiber.Map{
		"status": "healthy",
		"llm":    llm,
		"model":  h.llm.Model(),
		"time":   time.Now(),
	})
}

// HandleInfo handles GET /info
func (h *HealthHandler) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "TalentScout",
		"version": "1.0.0",
		"stages":  stages.All,
	})
}
