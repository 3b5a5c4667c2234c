package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InterviewPassed      = "Passed"
	InterviewNeedsReview = "Needs Review"

	// PassingInterviewScore is the technical score at which an interview counts as passed.
	PassingInterviewScore = 70
)

// InterviewResult is the stored outcome of a finished interview session.
type InterviewResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID    string         `gorm:"type:text;index" json:"candidateId"`
	SessionID      string         `gorm:"type:text;uniqueIndex" json:"sessionId"`
	CandidateName  string         `gorm:"type:text" json:"candidateName"`
	CandidateEmail string         `gorm:"type:text" json:"candidateEmail"`
	Evaluation     datatypes.JSON `gorm:"type:jsonb" json:"evaluation"`
	Answers        datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	TotalQuestions int            `json:"totalQuestions"`
	Status         string         `gorm:"type:text" json:"status"`
	CompletedAt    time.Time      `json:"completedAt"`
}

func (InterviewResult) TableName() string {
	return "interview_results"
}

// InterviewStatusFor maps a technical score onto the stored result status.
func InterviewStatusFor(score float64) string {
	if score >= PassingInterviewScore {
		return InterviewPassed
	}
	return InterviewNeedsReview
}
