package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/interview"
	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/repositories"
)

// GenericJobDescription is used when a session is started without one.
const GenericJobDescription = "Full Stack Developer position requiring React, Node.js, and technical problem solving."

const (
	interviewType   = "technical"
	recommended     = "Recommended"
	needsReview     = "Needs Review"
	unknownName     = "Unknown Candidate"
	unknownEmail    = "N/A"
	defaultCategory = "General"
)

type InterviewHandler struct {
	executor *pipeline.Executor
	sessions *interview.Manager
	results  repositories.InterviewResultRepository
	log      *zap.Logger
}

// NewInterviewHandler builds the interview endpoints. results may be nil, in
// which case finished interviews are not persisted.
func NewInterviewHandler(
	executor *pipeline.Executor,
	sessions *interview.Manager,
	results repositories.InterviewResultRepository,
	log *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		executor: executor,
		sessions: sessions,
		results:  results,
		log:      logger.OrNop(log).Named("interview_handler"),
	}
}

// HandleStartSession handles POST /ai-interview/start-session
func (h *InterviewHandler) HandleStartSession(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.CandidateID) == "" {
		return badRequest(c, "candidateId is required")
	}

	profile := mergeProfile(req)
	if !profile.IsPopulated() && strings.TrimSpace(req.ResumeText) == "" {
		return badRequest(c, "resumeText or candidateProfile is required")
	}

	jobDescription := strings.TrimSpace(req.JobDescription)
	if jobDescription == "" {
		jobDescription = GenericJobDescription
	}

	prep, err := h.executor.Prepare(c.UserContext(), pipeline.Request{
		Resume:           req.ResumeText,
		Candidate:        profile,
		JobDescription:   jobDescription,
		ConductInterview: true,
	})
	if err != nil {
		return respondError(c, err)
	}
	if prep.Candidate.ID == "" {
		prep.Candidate.ID = req.CandidateID
	}

	session, err := h.sessions.Start(c.UserContext(), interview.StartParams{
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Candidate:   prep.Candidate,
		Job:         prep.Job,
		Match:       prep.Match,
		Plan:        prep.Plan,
		Bias:        prep.Bias,
		Degraded:    prep.Degraded,
	})
	if err != nil {
		return respondError(c, err)
	}

	questions := sessionQuestions(prep.Plan)
	return c.JSON(models.StartSessionResponse{
		SessionID:         session.ID,
		CandidateID:       session.CandidateID,
		JobID:             session.JobID,
		Questions:         questions,
		TotalQuestions:    len(questions),
		EstimatedDuration: prep.Plan.EstimatedDuration,
		InterviewType:     interviewType,
		CurrentQuestion:   *session.CurrentQuestion,
		Degraded:          session.Degraded,
	})
}

// HandleSubmitAnswer handles POST /ai-interview/submit-answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if req.SessionID == "" {
		return badRequest(c, "sessionId is required")
	}

	session, err := h.sessions.Submit(c.UserContext(), req.SessionID, req.Answer)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SubmitAnswerResponse{
		Success:      true,
		NextQuestion: session.CurrentQuestion,
		IsComplete:   session.State() == interview.StateCompleted,
	})
}

// HandleEvaluate handles GET /ai-interview/evaluate/:sessionId
func (h *InterviewHandler) HandleEvaluate(c *fiber.Ctx) error {
	session, tech, err := h.technical(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return respondError(c, err)
	}

	response := models.InterviewEvaluationResponse{
		SessionID:           session.ID,
		TechnicalEvaluation: tech,
		Recommendation:      recommendationFor(tech.OverallScore),
	}
	h.saveResult(session, response)

	return c.JSON(response)
}

// HandleReport handles GET /ai-interview/report/:sessionId. The report is
// built once per session and served from the session afterwards.
func (h *InterviewHandler) HandleReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session, tech, err := h.technical(ctx, c.Params("sessionId"))
	if err != nil {
		return respondError(c, err)
	}

	if session.Report == nil {
		report, err := h.executor.Finalize(ctx, preparationOf(session), tech)
		if err != nil {
			return respondError(c, err)
		}
		session, err = h.sessions.SetReport(ctx, session.ID, report)
		if err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(models.EvaluateResponse{
		Success: true,
		Report:  session.Report,
	})
}

// technical returns the technical evaluation of a completed session,
// scoring it on first use. When two callers race, both get the evaluation
// that was stored first.
func (h *InterviewHandler) technical(ctx context.Context, id string) (*interview.Session, *models.TechnicalEvaluation, error) {
	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.State() == interview.StateActive {
		return nil, nil, interview.ErrSessionActive
	}
	if session.Technical != nil {
		return session, session.Technical, nil
	}

	tech, err := h.executor.EvaluateInterview(ctx, preparationOf(session), session.Answers)
	if err != nil {
		return nil, nil, err
	}
	session, err = h.sessions.SetTechnical(ctx, id, tech)
	if err != nil {
		return nil, nil, err
	}
	return session, session.Technical, nil
}

func (h *InterviewHandler) saveResult(session *interview.Session, response models.InterviewEvaluationResponse) {
	if h.results == nil {
		return
	}

	log := h.log.With(zap.String(logger.FieldSession, session.ID))
	evaluation, err := json.Marshal(response)
	if err != nil {
		log.Error("failed to encode interview evaluation", zap.Error(err))
		return
	}
	answers, err := json.Marshal(session.Answers)
	if err != nil {
		log.Error("failed to encode interview answers", zap.Error(err))
		return
	}

	name, email := unknownName, unknownEmail
	if session.Candidate != nil {
		if session.Candidate.Name != "" {
			name = session.Candidate.Name
		}
		if session.Candidate.Email != "" {
			email = session.Candidate.Email
		}
	}

	result := &models.InterviewResult{
		CandidateID:    session.CandidateID,
		SessionID:      session.ID,
		CandidateName:  name,
		CandidateEmail: email,
		Evaluation:     evaluation,
		Answers:        answers,
		TotalQuestions: len(session.Answers),
		Status:         models.InterviewStatusFor(response.OverallScore),
		CompletedAt:    time.Now(),
	}
	if err := h.results.Save(result); err != nil {
		log.Error("failed to save interview result", zap.Error(err))
		return
	}
	log.Info("interview result saved", zap.String("candidate", name), zap.String("status", result.Status))
}

// mergeProfile fills empty profile fields from the flat request fields.
func mergeProfile(req models.StartSessionRequest) *models.CandidateProfile {
	if req.CandidateProfile == nil {
		return nil
	}
	profile := *req.CandidateProfile
	if profile.TotalYearsOfExperience == 0 && req.ExperienceYears > 0 {
		profile.TotalYearsOfExperience = req.ExperienceYears
	}
	if len(profile.Skills.Technical) == 0 && len(req.PrimarySkills) > 0 {
		profile.Skills.Technical = req.PrimarySkills
	}
	return &profile
}

func sessionQuestions(plan *models.InterviewPlan) []models.SessionQuestion {
	total := plan.QuestionCount()
	questions := make([]models.SessionQuestion, 0, total)
	if total == 0 {
		return questions
	}

	perQuestion := plan.EstimatedDuration / total
	if perQuestion < 1 {
		perQuestion = 1
	}
	for _, section := range plan.Sections {
		category := section.Topic
		if category == "" {
			category = defaultCategory
		}
		for _, q := range section.Questions {
			questions = append(questions, models.SessionQuestion{
				ID:               fmt.Sprintf("q%d", len(questions)+1),
				Question:         q,
				Category:         category,
				Difficulty:       string(plan.DifficultyLevel),
				ExpectedDuration: perQuestion,
			})
		}
	}
	return questions
}

func preparationOf(s *interview.Session) *pipeline.Preparation {
	return &pipeline.Preparation{
		Candidate: s.Candidate,
		Job:       s.Job,
		Match:     s.Match,
		Plan:      s.Plan,
		Bias:      s.Bias,
		Degraded:  s.Degraded,
	}
}

func recommendationFor(score float64) string {
	if score >= models.PassingInterviewScore {
		return recommended
	}
	return needsReview
}
