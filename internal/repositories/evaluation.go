package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/talent-scout/internal/models"
)

type EvaluationRepository interface {
	Create(job *models.EvaluationJob) error
	FindByID(id uuid.UUID) (*models.EvaluationJob, error)
	// Claim moves a queued job to processing. It reports false when another
	// worker already took the job.
	Claim(id uuid.UUID) (bool, error)
	Complete(id uuid.UUID, report *models.EvaluationReport) error
	MarkFailed(id uuid.UUID, stage, errorMsg string) error
	FindPendingJobs(limit int) ([]models.EvaluationJob, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(job *models.EvaluationJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	var job models.EvaluationJob
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &job, nil
}

func (r *evaluationRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim evaluation: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *evaluationRepository) Complete(id uuid.UUID, report *models.EvaluationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return r.update(id, map[string]interface{}{
		"status":     models.StatusCompleted,
		"report":     datatypes.JSON(payload),
		"updated_at": time.Now(),
	})
}

func (r *evaluationRepository) MarkFailed(id uuid.UUID, stage, errorMsg string) error {
	updates := map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	}
	if stage != "" {
		updates["failed_stage"] = stage
	}

	return r.update(id, updates)
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.EvaluationJob, error) {
	var jobs []models.EvaluationJob
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return jobs, nil
}

func (r *evaluationRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.EvaluationJob{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update evaluation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}

	return nil
}
