package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/talent-scout/internal/models"
)

type InterviewResultRepository interface {
	// Save stores the result, replacing an earlier one for the same session.
	Save(result *models.InterviewResult) error
	FindAll() ([]models.InterviewResult, error)
	FindByCandidate(candidateID string) ([]models.InterviewResult, error)
}

type interviewResultRepository struct {
	db *gorm.DB
}

func NewInterviewResultRepository(db *gorm.DB) InterviewResultRepository {
	return &interviewResultRepository{db: db}
}

func (r *interviewResultRepository) Save(result *models.InterviewResult) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"evaluation", "answers", "total_questions", "status", "completed_at"}),
	}).Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to save interview result: %w", err)
	}
	return nil
}

func (r *interviewResultRepository) FindAll() ([]models.InterviewResult, error) {
	var results []models.InterviewResult
	if err := r.db.Order("completed_at DESC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview results: %w", err)
	}
	return results, nil
}

func (r *interviewResultRepository) FindByCandidate(candidateID string) ([]models.InterviewResult, error) {
	var results []models.InterviewResult
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("completed_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interview results: %w", err)
	}
	return results, nil
}
