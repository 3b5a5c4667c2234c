package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
)

// JobRunner processes queued evaluation jobs for the worker pool.
type JobRunner struct {
	executor *Executor
	jobs     repositories.EvaluationRepository
	docs     repositories.DocumentRepository
	log      *zap.Logger
}

func NewJobRunner(
	executor *Executor,
	jobs repositories.EvaluationRepository,
	docs repositories.DocumentRepository,
	log *zap.Logger,
) *JobRunner {
	return &JobRunner{
		executor: executor,
		jobs:     jobs,
		docs:     docs,
		log:      logger.OrNop(log).Named("jobs"),
	}
}

// Process claims the job, runs the pipeline and records the outcome. Jobs
// already claimed elsewhere are skipped.
func (r *JobRunner) Process(ctx context.Context, jobID uuid.UUID) error {
	claimed, err := r.jobs.Claim(jobID)
	if err != nil {
		return err
	}
	if !claimed {
		r.log.Debug("job already claimed", zap.Stringer("job_id", jobID))
		return nil
	}

	job, err := r.jobs.FindByID(jobID)
	if err != nil {
		return err
	}

	req := Request{
		Resume:           job.ResumeText,
		JobDescription:   job.JobDescription,
		ConductInterview: job.ConductInterview,
	}
	if job.ResumeDocumentID != nil {
		doc, err := r.docs.FindByID(*job.ResumeDocumentID)
		if err != nil {
			return r.fail(jobID, stages.Fail(stages.ResumeLoadStage, stages.ErrLoadFailure, err))
		}
		req.ResumePath = doc.FilePath
	}

	report, err := r.executor.Evaluate(ctx, req)
	if err != nil {
		return r.fail(jobID, err)
	}

	if err := r.jobs.Complete(jobID, report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

func (r *JobRunner) fail(jobID uuid.UUID, cause error) error {
	stage, _ := stages.FailedStage(cause)
	if err := r.jobs.MarkFailed(jobID, string(stage), cause.Error()); err != nil {
		r.log.Error("failed to record job failure", zap.Stringer("job_id", jobID), zap.Error(err))
	}
	return cause
}

var _ services.JobProcessor = (*JobRunner)(nil)
