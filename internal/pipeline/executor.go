// Package pipeline runs the evaluation stages in dependency order and
// assembles the final report.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
)

// DefaultPlanTimeout bounds interview planning before the fallback plan is used.
const DefaultPlanTimeout = 90 * time.Second

const rubricLimit = 3

var ErrMissingJobDescription = errors.New("job description is required")

// Request describes one evaluation run. Resume is resume text and is never
// read as a path; ResumePath names a trusted file and wins when both are set.
// A populated Candidate selects the express path and both are ignored.
type Request struct {
	Resume           string
	ResumePath       string
	Candidate        *models.CandidateProfile
	JobDescription   string
	ConductInterview bool
	// Technical merges a previously produced interview evaluation.
	Technical *models.TechnicalEvaluation
}

// Preparation holds the artifacts produced before any interview takes place.
type Preparation struct {
	Candidate *models.CandidateProfile
	Job       *models.JobProfile
	Match     *models.MatchAnalysis
	Plan      *models.InterviewPlan
	Bias      *models.BiasCheck
	// Degraded is set when the fallback interview plan was substituted.
	Degraded bool
}

type Options struct {
	PlanTimeout time.Duration
	Loader      services.ResumeLoader
	Knowledge   services.KnowledgeBase
	Logger      *zap.Logger
}

type Executor struct {
	stages      stages.Set
	loader      services.ResumeLoader
	knowledge   services.KnowledgeBase
	planTimeout time.Duration
	log         *zap.Logger
}

func NewExecutor(set stages.Set, opts Options) *Executor {
	timeout := opts.PlanTimeout
	if timeout <= 0 {
		timeout = DefaultPlanTimeout
	}
	return &Executor{
		stages:      set,
		loader:      opts.Loader,
		knowledge:   opts.Knowledge,
		planTimeout: timeout,
		log:         logger.OrNop(opts.Logger).Named("pipeline"),
	}
}

// Evaluate runs the whole pipeline without an interactive interview.
func (e *Executor) Evaluate(ctx context.Context, req Request) (*models.EvaluationReport, error) {
	prep, err := e.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.Finalize(ctx, prep, req.Technical)
}

// Prepare runs resume and job analysis, matching, and then interview
// planning alongside the bias check.
func (e *Executor) Prepare(ctx context.Context, req Request) (*Preparation, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, ErrMissingJobDescription
	}

	prep := &Preparation{}
	express := req.Candidate.IsPopulated()

	var resumeText string
	if express {
		candidate := *req.Candidate
		candidate.FillDefaults()
		prep.Candidate = &candidate
	} else {
		text, err := e.loadResume(req)
		if err != nil {
			return nil, err
		}
		resumeText = text
	}

	// Step 1: resume and job analysis, plus best-effort rubric retrieval.
	var rubrics string
	var g errgroup.Group
	if !express {
		g.Go(func() error {
			candidate, err := e.stages.Resume.Run(ctx, resumeText)
			prep.Candidate = candidate
			return err
		})
	}
	g.Go(func() error {
		job, err := e.stages.Job.Run(ctx, req.JobDescription)
		prep.Job = job
		return err
	})
	g.Go(func() error {
		rubrics = e.retrieveRubrics(ctx, req.JobDescription)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 2: matching.
	match, err := e.stages.Match.Run(ctx, stages.MatchInput{
		Candidate:     prep.Candidate,
		Job:           prep.Job,
		RubricContext: rubrics,
	})
	if err != nil {
		return nil, err
	}
	prep.Match = match

	// Step 3: bias check, and interview planning when requested.
	g = errgroup.Group{}
	g.Go(func() error {
		bias, err := e.stages.Bias.Run(ctx, stages.BiasInput{
			Candidate: prep.Candidate,
			Match:     prep.Match,
		})
		prep.Bias = bias
		return err
	})
	if req.ConductInterview {
		g.Go(func() error {
			prep.Plan, prep.Degraded = e.planOrFallback(ctx, stages.PlanInput{
				Candidate:     prep.Candidate,
				Job:           prep.Job,
				Match:         prep.Match,
				RubricContext: rubrics,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prep, nil
}

// Finalize runs the decision stage over the prepared artifacts and an
// optional interview evaluation, then builds the report.
func (e *Executor) Finalize(ctx context.Context, prep *Preparation, tech *models.TechnicalEvaluation) (*models.EvaluationReport, error) {
	decision, err := e.stages.Decision.Run(ctx, stages.DecisionInput{
		Candidate: prep.Candidate,
		Job:       prep.Job,
		Match:     prep.Match,
		Technical: tech,
		Bias:      prep.Bias,
	})
	if err != nil {
		return nil, err
	}

	if prep.Bias.Failed() {
		e.log.Warn("bias check failed, forcing high risk",
			zap.String(logger.FieldStage, string(stages.BiasCheckStage)),
			zap.String("decision_risk", string(decision.RiskLevel)),
			zap.Bool("checks_clear", prep.Bias.Checks.AllClear()),
			zap.Strings("warnings", prep.Bias.Warnings),
		)
	}

	report := BuildReport(prep, tech, decision, time.Now())
	e.log.Info("evaluation completed",
		zap.String("candidate", report.CandidateProfile.Name),
		zap.String("recommendation", string(report.FinalRecommendation)),
		zap.String("risk", string(report.RiskLevel)),
		zap.Bool("degraded", report.Degraded),
	)
	return report, nil
}

// EvaluateInterview scores the answers of a finished interview.
func (e *Executor) EvaluateInterview(ctx context.Context, prep *Preparation, answers []models.InterviewAnswer) (*models.TechnicalEvaluation, error) {
	return e.stages.Technical.Run(ctx, stages.TechnicalInput{
		Candidate: prep.Candidate,
		Job:       prep.Job,
		Plan:      prep.Plan,
		Answers:   answers,
	})
}

func (e *Executor) loadResume(req Request) (string, error) {
	if req.ResumePath != "" {
		if e.loader == nil {
			return "", stages.Fail(stages.ResumeLoadStage, stages.ErrLoadFailure, errors.New("no resume loader configured"))
		}
		text, err := e.loader.LoadFile(req.ResumePath)
		if err != nil {
			return "", stages.Fail(stages.ResumeLoadStage, stages.ErrLoadFailure, err)
		}
		return text, nil
	}

	text := strings.TrimSpace(req.Resume)
	if text == "" {
		return "", stages.Fail(stages.ResumeLoadStage, stages.ErrLoadFailure, errors.New("resume is required"))
	}
	return text, nil
}

// planOrFallback races interview planning against the plan timeout. Any
// failure yields the fallback plan and reports degraded mode.
func (e *Executor) planOrFallback(ctx context.Context, in stages.PlanInput) (*models.InterviewPlan, bool) {
	planCtx, cancel := context.WithTimeout(ctx, e.planTimeout)
	defer cancel()

	type result struct {
		plan *models.InterviewPlan
		err  error
	}
	done := make(chan result, 1)
	go func() {
		plan, err := e.stages.Plan.Run(planCtx, in)
		done <- result{plan: plan, err: err}
	}()

	var err error
	select {
	case r := <-done:
		if r.err == nil {
			return r.plan, false
		}
		err = r.err
	case <-planCtx.Done():
		err = stages.Fail(stages.InterviewPlanningStage, stages.ErrTimeout, planCtx.Err())
	}

	e.log.Warn("interview planning failed, using fallback plan",
		zap.String(logger.FieldStage, string(stages.InterviewPlanningStage)),
		zap.Duration("budget", e.planTimeout),
		zap.Error(err),
	)
	return models.FallbackInterviewPlan(), true
}

func (e *Executor) retrieveRubrics(ctx context.Context, jobDescription string) string {
	if e.knowledge == nil {
		return ""
	}
	passages, err := e.knowledge.Retrieve(ctx, jobDescription,
		[]string{services.KindHiringRubric, services.KindInterviewRubric}, rubricLimit)
	if err != nil {
		e.log.Warn("rubric retrieval failed, continuing without rubrics", zap.Error(err))
		return ""
	}
	return services.FormatRubricContext(passages)
}
