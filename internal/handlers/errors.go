package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-scout/internal/interview"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/stages"
)

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func unavailable(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": what + " is not configured",
	})
}

// respondError maps domain errors onto HTTP statuses. Stage failures carry
// the failing stage name.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, interview.ErrSessionNotFound), errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, interview.ErrEmptyAnswer), errors.Is(err, pipeline.ErrMissingJobDescription):
		status = fiber.StatusBadRequest
	case errors.Is(err, interview.ErrSessionCompleted), errors.Is(err, interview.ErrSessionActive):
		status = fiber.StatusConflict
	}

	body := fiber.Map{"error": err.Error()}
	if stage, ok := stages.FailedStage(err); ok {
		body["stage"] = string(stage)
	}
	return c.Status(status).JSON(body)
}
