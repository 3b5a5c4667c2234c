package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/stages"
)

type Options struct {
	// MaxTurns ends a session once it holds this many answers. Zero disables it.
	MaxTurns int
	Logger   *zap.Logger
	Now      func() time.Time
}

// StartParams carries the prepared artifacts a session is opened with.
type StartParams struct {
	CandidateID string
	JobID       string
	Candidate   *models.CandidateProfile
	Job         *models.JobProfile
	Match       *models.MatchAnalysis
	Plan        *models.InterviewPlan
	Bias        *models.BiasCheck
	Degraded    bool
}

type Manager struct {
	store    Store
	turn     stages.Stage[stages.TurnInput, stages.TurnResult]
	maxTurns int
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(store Store, turn stages.Stage[stages.TurnInput, stages.TurnResult], opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:    store,
		turn:     turn,
		maxTurns: opts.MaxTurns,
		log:      logger.OrNop(opts.Logger).Named("interview"),
		now:      now,
	}
}

// Start opens a session on the first planned question.
func (m *Manager) Start(ctx context.Context, p StartParams) (*Session, error) {
	first := p.Plan.FirstQuestion()
	if first == "" {
		first = GenericOpener
	}

	now := m.now()
	s := &Session{
		ID:              uuid.NewString(),
		CandidateID:     p.CandidateID,
		JobID:           p.JobID,
		Candidate:       p.Candidate,
		Job:             p.Job,
		Match:           p.Match,
		Plan:            p.Plan,
		Bias:            p.Bias,
		Degraded:        p.Degraded,
		Answers:         []models.InterviewAnswer{},
		CurrentQuestion: &first,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	m.log.Info("interview session started",
		zap.String(logger.FieldSession, s.ID),
		zap.String("candidate_id", s.CandidateID),
		zap.Int("planned_questions", p.Plan.QuestionCount()),
		zap.Bool("degraded", s.Degraded),
	)
	return s, nil
}

// Submit records an answer to the current question and advances the
// session. On any error the stored session is left as it was.
func (m *Manager) Submit(ctx context.Context, id, answer string) (*Session, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	log := m.log.With(zap.String(logger.FieldSession, id))

	return m.store.Mutate(ctx, id, func(s *Session) error {
		if s.State() == StateCompleted {
			return ErrSessionCompleted
		}

		now := m.now()
		history := append(append([]models.InterviewAnswer(nil), s.Answers...), models.InterviewAnswer{
			Question:  *s.CurrentQuestion,
			Answer:    answer,
			Timestamp: now,
		})

		if m.maxTurns > 0 && len(history) >= m.maxTurns {
			s.Answers = history
			s.CurrentQuestion = nil
			s.UpdatedAt = now
			log.Info("interview reached max turns", zap.Int("turns", len(history)))
			return nil
		}

		result, err := m.turn.Run(ctx, stages.TurnInput{
			Candidate:    s.Candidate,
			Job:          s.Job,
			Plan:         s.Plan,
			History:      history,
			LatestAnswer: answer,
		})
		if err != nil {
			log.Error("interview turn failed", zap.Error(err))
			return err
		}

		s.Answers = history
		s.UpdatedAt = now
		if result.End {
			s.CurrentQuestion = nil
			log.Info("interview completed", zap.Int("turns", len(history)))
			return nil
		}
		next := result.NextQuestion
		s.CurrentQuestion = &next
		return nil
	})
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// SetTechnical attaches the technical evaluation of a completed session. The
// first evaluation stored wins; the returned session carries it.
func (m *Manager) SetTechnical(ctx context.Context, id string, tech *models.TechnicalEvaluation) (*Session, error) {
	return m.store.Mutate(ctx, id, func(s *Session) error {
		if s.State() == StateActive {
			return ErrSessionActive
		}
		if s.Technical == nil {
			s.Technical = tech
			s.UpdatedAt = m.now()
		}
		return nil
	})
}

// SetReport attaches the final report of a completed session. As with
// SetTechnical, an existing report is kept.
func (m *Manager) SetReport(ctx context.Context, id string, report *models.EvaluationReport) (*Session, error) {
	return m.store.Mutate(ctx, id, func(s *Session) error {
		if s.State() == StateActive {
			return ErrSessionActive
		}
		if s.Report == nil {
			s.Report = report
			s.UpdatedAt = m.now()
		}
		return nil
	})
}
