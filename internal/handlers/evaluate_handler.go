package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/services"
)

type EvaluationHandler struct {
	executor *pipeline.Executor
	evalRepo repositories.EvaluationRepository
	docRepo  repositories.DocumentRepository
	worker   services.Worker
}

// NewEvaluationHandler builds the evaluation endpoints. The repositories and
// worker may be nil when no database is configured; only the synchronous
// endpoint is served then.
func NewEvaluationHandler(
	executor *pipeline.Executor,
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		executor: executor,
		evalRepo: evalRepo,
		docRepo:  docRepo,
		worker:   worker,
	}
}

// HandleEvaluate handles POST /evaluate and runs the pipeline inline.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	req, msg := parseEvaluateRequest(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	run := pipeline.Request{
		Resume:           req.Resume,
		JobDescription:   req.JobDescription,
		ConductInterview: req.ConductInterview,
	}
	if req.DocumentID != "" {
		if h.docRepo == nil {
			return unavailable(c, "document storage")
		}
		docID, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return badRequest(c, "Invalid documentId format")
		}
		doc, err := h.docRepo.FindByID(docID)
		if err != nil {
			return respondError(c, err)
		}
		// Only uploaded documents are read from disk.
		run.ResumePath = doc.FilePath
	}

	report, err := h.executor.Evaluate(c.UserContext(), run)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.EvaluateResponse{
		Success: true,
		Report:  report,
	})
}

// HandleEnqueue handles POST /evaluations and queues the run for the worker.
func (h *EvaluationHandler) HandleEnqueue(c *fiber.Ctx) error {
	if h.evalRepo == nil || h.worker == nil {
		return unavailable(c, "evaluation queue")
	}

	req, msg := parseEvaluateRequest(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	job := &models.EvaluationJob{
		ID:               uuid.New(),
		ResumeText:       req.Resume,
		JobDescription:   req.JobDescription,
		ConductInterview: req.ConductInterview,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if req.DocumentID != "" {
		docID, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return badRequest(c, "Invalid documentId format")
		}
		if h.docRepo != nil {
			if _, err := h.docRepo.FindByID(docID); err != nil {
				return respondError(c, err)
			}
		}
		job.ResumeDocumentID = &docID
	}

	if err := h.evalRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluationJobResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}

func parseEvaluateRequest(c *fiber.Ctx) (models.EvaluateRequest, string) {
	var req models.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return req, "Invalid request payload"
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return req, "jobDescription is required"
	}
	if strings.TrimSpace(req.Resume) == "" && req.DocumentID == "" {
		return req, "resume or documentId is required"
	}
	return req, ""
}
