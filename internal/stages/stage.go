// Package stages wraps each evaluation step around a single Evaluator call
// and normalizes the loosely shaped model output into typed artifacts.
package stages

import (
	"context"

	"alfredoptarigan/talent-scout/internal/models"
)

// Name identifies a stage in logs and errors.
type Name string

const (
	ResumeAnalysisStage      Name = "resume_analysis"
	JobAnalysisStage         Name = "job_analysis"
	MatchingStage            Name = "matching"
	InterviewPlanningStage   Name = "interview_planning"
	InterviewTurnStage       Name = "interview_turn"
	TechnicalEvaluationStage Name = "technical_evaluation"
	BiasCheckStage           Name = "bias_check"
	DecisionStage            Name = "decision"

	// ResumeLoadStage is not an Evaluator call; it names resume acquisition
	// failures.
	ResumeLoadStage Name = "resume_load"
)

// All lists the Evaluator-backed stages in pipeline order.
var All = []Name{
	ResumeAnalysisStage,
	JobAnalysisStage,
	MatchingStage,
	InterviewPlanningStage,
	InterviewTurnStage,
	TechnicalEvaluationStage,
	BiasCheckStage,
	DecisionStage,
}

// Stage is one pipeline step.
type Stage[In, Out any] interface {
	Name() Name
	Run(ctx context.Context, in In) (Out, error)
}

type MatchInput struct {
	Candidate     *models.CandidateProfile
	Job           *models.JobProfile
	RubricContext string
}

type PlanInput struct {
	Candidate     *models.CandidateProfile
	Job           *models.JobProfile
	Match         *models.MatchAnalysis
	RubricContext string
}

type TurnInput struct {
	Candidate    *models.CandidateProfile
	Job          *models.JobProfile
	Plan         *models.InterviewPlan
	History      []models.InterviewAnswer
	LatestAnswer string
}

// TurnResult is either the next question or the end of the interview.
type TurnResult struct {
	NextQuestion string
	End          bool
}

type TechnicalInput struct {
	Candidate *models.CandidateProfile
	Job       *models.JobProfile
	Plan      *models.InterviewPlan
	Answers   []models.InterviewAnswer
}

type BiasInput struct {
	Candidate *models.CandidateProfile
	Match     *models.MatchAnalysis
	Technical *models.TechnicalEvaluation
}

type DecisionInput struct {
	Candidate *models.CandidateProfile
	Job       *models.JobProfile
	Match     *models.MatchAnalysis
	Technical *models.TechnicalEvaluation
	Bias      *models.BiasCheck
}

// Set bundles one implementation of every stage.
type Set struct {
	Resume    Stage[string, *models.CandidateProfile]
	Job       Stage[string, *models.JobProfile]
	Match     Stage[MatchInput, *models.MatchAnalysis]
	Plan      Stage[PlanInput, *models.InterviewPlan]
	Turn      Stage[TurnInput, TurnResult]
	Technical Stage[TechnicalInput, *models.TechnicalEvaluation]
	Bias      Stage[BiasInput, *models.BiasCheck]
	Decision  Stage[DecisionInput, *models.FinalDecision]
}

// NewSet builds the Evaluator-backed stages sharing one runner.
func NewSet(r *Runner) Set {
	return Set{
		Resume:    &ResumeAnalysis{runner: r},
		Job:       &JobAnalysis{runner: r},
		Match:     &Matching{runner: r},
		Plan:      &InterviewPlanning{runner: r},
		Turn:      &InterviewTurn{runner: r},
		Technical: &TechnicalEvaluation{runner: r},
		Bias:      &BiasCheck{runner: r},
		Decision:  &Decision{runner: r},
	}
}
