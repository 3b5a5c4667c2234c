package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// EvaluationJob is a queued pipeline run processed by the worker pool.
type EvaluationJob struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeText       string           `gorm:"type:text" json:"resume_text,omitempty"`
	ResumeDocumentID *uuid.UUID       `gorm:"type:uuid" json:"resume_document_id,omitempty"`
	JobDescription   string           `gorm:"type:text;not null" json:"job_description"`
	ConductInterview bool             `gorm:"not null;default:false" json:"conduct_interview"`
	Status           EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	FailedStage      *string          `gorm:"type:text" json:"failed_stage,omitempty"`
	ErrorMessage     *string          `gorm:"type:text" json:"error_message,omitempty"`
	Report           datatypes.JSON   `gorm:"type:jsonb" json:"report,omitempty"`
	CreatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ResumeDocument *Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (EvaluationJob) TableName() string {
	return "evaluations"
}
