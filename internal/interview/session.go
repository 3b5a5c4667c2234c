// Package interview runs adaptive interview sessions on top of an
// InterviewPlan.
package interview

import (
	"errors"
	"time"

	"alfredoptarigan/talent-scout/internal/models"
)

// GenericOpener is asked first when the plan has no questions.
const GenericOpener = "Can you tell me about your background?"

type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
)

var (
	ErrSessionNotFound  = errors.New("interview session not found")
	ErrSessionExists    = errors.New("interview session already exists")
	ErrSessionCompleted = errors.New("interview session is completed")
	ErrSessionActive    = errors.New("interview session is still active")
	ErrEmptyAnswer      = errors.New("answer is empty")
)

// Session is one live interview. Answers only ever grow; CurrentQuestion is
// nil once the interview is over.
type Session struct {
	ID              string                      `json:"id"`
	CandidateID     string                      `json:"candidateId"`
	JobID           string                      `json:"jobId"`
	Candidate       *models.CandidateProfile    `json:"candidate"`
	Job             *models.JobProfile          `json:"job"`
	Match           *models.MatchAnalysis       `json:"match"`
	Plan            *models.InterviewPlan       `json:"plan"`
	Bias            *models.BiasCheck           `json:"bias"`
	Degraded        bool                        `json:"degraded"`
	Answers         []models.InterviewAnswer    `json:"answers"`
	CurrentQuestion *string                     `json:"currentQuestion"`
	Technical       *models.TechnicalEvaluation `json:"technical,omitempty"`
	Report          *models.EvaluationReport    `json:"report,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (s *Session) State() State {
	if s.CurrentQuestion == nil {
		return StateCompleted
	}
	return StateActive
}

// Clone copies the mutable parts of the session. The upstream artifacts are
// immutable and shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Answers = append([]models.InterviewAnswer(nil), s.Answers...)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		c.CurrentQuestion = &q
	}
	return &c
}
