package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/talent-scout/internal/repositories"
)

type InterviewResultHandler struct {
	results repositories.InterviewResultRepository
}

func NewInterviewResultHandler(results repositories.InterviewResultRepository) *InterviewResultHandler {
	return &InterviewResultHandler{results: results}
}

// HandleList handles GET /interviews
func (h *InterviewResultHandler) HandleList(c *fiber.Ctx) error {
	if h.results == nil {
		return unavailable(c, "interview result storage")
	}
	results, err := h.results.FindAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}

// HandleByCandidate handles GET /interviews/:candidateId
func (h *InterviewResultHandler) HandleByCandidate(c *fiber.Ctx) error {
	if h.results == nil {
		return unavailable(c, "interview result storage")
	}
	results, err := h.results.FindByCandidate(c.Params("candidateId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
