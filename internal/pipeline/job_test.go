package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/stages"
	"alfredoptarigan/talent-scout/internal/stages/stagestest"
)

type fakeJobs struct {
	job       *models.EvaluationJob
	claimable bool
	report    *models.EvaluationReport
	failStage string
	failMsg   string
}

func (f *fakeJobs) Create(*models.EvaluationJob) error { return nil }

func (f *fakeJobs) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	if f.job == nil || f.job.ID != id {
		return nil, fmt.Errorf("evaluation %s: %w", id, repositories.ErrNotFound)
	}
	return f.job, nil
}

func (f *fakeJobs) Claim(uuid.UUID) (bool, error) { return f.claimable, nil }

func (f *fakeJobs) Complete(_ uuid.UUID, report *models.EvaluationReport) error {
	f.report = report
	return nil
}

func (f *fakeJobs) MarkFailed(_ uuid.UUID, stage, msg string) error {
	f.failStage, f.failMsg = stage, msg
	return nil
}

func (f *fakeJobs) FindPendingJobs(int) ([]models.EvaluationJob, error) { return nil, nil }

type fakeDocs struct {
	doc *models.Document
}

func (f *fakeDocs) Create(*models.Document) error { return nil }

func (f *fakeDocs) FindByID(id uuid.UUID) (*models.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.doc, nil
}

func TestJobRunner_Completes(t *testing.T) {
	job := &models.EvaluationJob{ID: uuid.New(), ResumeText: "Jane Doe\nGo developer", JobDescription: jobText}
	jobs := &fakeJobs{job: job, claimable: true}
	runner := NewJobRunner(newExecutor(stagestest.Default(), Options{}), jobs, &fakeDocs{}, nil)

	require.NoError(t, runner.Process(context.Background(), job.ID))
	require.NotNil(t, jobs.report)
	assert.Equal(t, "Jane Doe", jobs.report.CandidateProfile.Name)
	assert.Empty(t, jobs.failStage)
}

func TestJobRunner_SkipsClaimedJob(t *testing.T) {
	ev := stagestest.Default()
	jobs := &fakeJobs{claimable: false}
	runner := NewJobRunner(newExecutor(ev, Options{}), jobs, &fakeDocs{}, nil)

	require.NoError(t, runner.Process(context.Background(), uuid.New()))
	assert.Empty(t, ev.Requests())
}

func TestJobRunner_RecordsFailedStage(t *testing.T) {
	job := &models.EvaluationJob{ID: uuid.New(), ResumeText: "Jane Doe\nGo developer", JobDescription: jobText}
	jobs := &fakeJobs{job: job, claimable: true}
	ev := stagestest.Default().Fail(stages.MatchingStage, errors.New("quota exceeded"))
	runner := NewJobRunner(newExecutor(ev, Options{}), jobs, &fakeDocs{}, nil)

	err := runner.Process(context.Background(), job.ID)
	require.Error(t, err)
	assert.Equal(t, string(stages.MatchingStage), jobs.failStage)
	assert.Contains(t, jobs.failMsg, "quota exceeded")
	assert.Nil(t, jobs.report)
}

func TestJobRunner_MissingDocument(t *testing.T) {
	docID := uuid.New()
	job := &models.EvaluationJob{ID: uuid.New(), ResumeDocumentID: &docID, JobDescription: jobText}
	jobs := &fakeJobs{job: job, claimable: true}
	runner := NewJobRunner(newExecutor(stagestest.Default(), Options{}), jobs, &fakeDocs{}, nil)

	err := runner.Process(context.Background(), job.ID)
	assert.ErrorIs(t, err, stages.ErrLoadFailure)
	assert.Equal(t, string(stages.ResumeLoadStage), jobs.failStage)
}

func TestJobRunner_UsesDocumentPath(t *testing.T) {
	doc := &models.Document{ID: uuid.New(), FilePath: "/uploads/resume_1.txt"}
	job := &models.EvaluationJob{ID: uuid.New(), ResumeDocumentID: &doc.ID, JobDescription: jobText}
	jobs := &fakeJobs{job: job, claimable: true}

	var loaded string
	loader := loaderFunc(func(source string) (string, error) {
		loaded = source
		return "Jane Doe\nGo developer", nil
	})
	exec := newExecutor(stagestest.Default(), Options{Loader: loader})

	require.NoError(t, NewJobRunner(exec, jobs, &fakeDocs{doc: doc}, nil).Process(context.Background(), job.ID))
	assert.Equal(t, doc.FilePath, loaded)
}

type loaderFunc func(string) (string, error)

func (f loaderFunc) LoadFile(path string) (string, error) { return f(path) }
