package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	if h.evalRepo == nil {
		return unavailable(c, "evaluation queue")
	}

	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid evaluation ID format")
	}

	job, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return respondError(c, err)
	}

	response := models.ResultResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
	}

	switch job.Status {
	case models.StatusCompleted:
		var report models.EvaluationReport
		if err := json.Unmarshal(job.Report, &report); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Stored report is unreadable",
			})
		}
		response.Report = &report
	case models.StatusFailed:
		response.FailedStage = job.FailedStage
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}
