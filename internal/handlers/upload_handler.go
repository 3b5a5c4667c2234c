package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/services"
)

const resumeField = "resume"

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	log            *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		log:            logger.OrNop(log).Named("upload_handler"),
	}
}

// HandleUpload handles POST /upload with a single multipart resume file.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	if h.docRepo == nil {
		return unavailable(c, "document storage")
	}

	file, err := c.FormFile(resumeField)
	if err != nil {
		return badRequest(c, "Please upload the resume as multipart field 'resume'")
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !services.AllowedResumeExtensions[ext] {
		return badRequest(c, fmt.Sprintf("Unsupported resume format %q. Use .pdf or .txt", ext))
	}

	filename, filePath, err := h.storageService.SaveFile(file, resumeField)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         resumeField,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		log := h.log.With(zap.String("filename", filename))
		log.Error("failed to save document record", zap.Error(err))
		if err := h.storageService.DeleteFile(filename); err != nil {
			log.Warn("failed to remove orphaned upload", zap.Error(err))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume document record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	})
}
