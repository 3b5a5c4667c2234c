package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"

	"alfredoptarigan/talent-scout/internal/interview"
	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
	"alfredoptarigan/talent-scout/internal/stages/stagestest"
)

const jobText = "Senior Go Engineer: Go, PostgreSQL, 4+ years."

type memoryJobs struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.EvaluationJob
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{jobs: map[uuid.UUID]*models.EvaluationJob{}}
}

func (m *memoryJobs) Create(job *models.EvaluationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *memoryJobs) FindByID(id uuid.UUID) (*models.EvaluationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return job, nil
}

func (m *memoryJobs) Claim(uuid.UUID) (bool, error)                       { return true, nil }
func (m *memoryJobs) Complete(uuid.UUID, *models.EvaluationReport) error  { return nil }
func (m *memoryJobs) MarkFailed(uuid.UUID, string, string) error          { return nil }
func (m *memoryJobs) FindPendingJobs(int) ([]models.EvaluationJob, error) { return nil, nil }

type memoryDocs struct {
	docs []models.Document
}

func (m *memoryDocs) Create(doc *models.Document) error {
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *memoryDocs) FindByID(id uuid.UUID) (*models.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

type memoryResults struct {
	mu    sync.Mutex
	saved []models.InterviewResult
}

func (m *memoryResults) Save(r *models.InterviewResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *r)
	return nil
}

func (m *memoryResults) FindAll() ([]models.InterviewResult, error) { return m.saved, nil }

func (m *memoryResults) FindByCandidate(id string) ([]models.InterviewResult, error) {
	var out []models.InterviewResult
	for _, r := range m.saved {
		if r.CandidateID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingWorker struct {
	enqueued []uuid.UUID
}

func (w *recordingWorker) Start(context.Context)   {}
func (w *recordingWorker) Stop()                   {}
func (w *recordingWorker) EnqueueJob(id uuid.UUID) { w.enqueued = append(w.enqueued, id) }

type fakeLLM struct{ err error }

func (f fakeLLM) HealthCheck(context.Context) error { return f.err }
func (f fakeLLM) Model() string                     { return "gemini-test" }

type testServer struct {
	app     *fiber.App
	ev      *stagestest.Evaluator
	jobs    *memoryJobs
	docs    *memoryDocs
	results *memoryResults
	worker  *recordingWorker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ev := stagestest.Default()
	set := stages.NewSet(stages.NewRunner(ev, time.Second, nil))
	exec := pipeline.NewExecutor(set, pipeline.Options{
		Loader: services.NewResumeLoader(services.NewPDFParserService()),
	})
	manager := interview.NewManager(interview.NewMemoryStore(0), set.Turn, interview.Options{})

	s := &testServer{
		ev:      ev,
		jobs:    newMemoryJobs(),
		docs:    &memoryDocs{},
		results: &memoryResults{},
		worker:  &recordingWorker{},
	}

	evaluation := NewEvaluationHandler(exec, s.jobs, s.docs, s.worker)
	result := NewResultHandler(s.jobs)
	upload := NewUploadHandler(s.docs, services.NewStorageService(t.TempDir()), 1<<20, nil)
	interviews := NewInterviewHandler(exec, manager, s.results, nil)
	stored := NewInterviewResultHandler(s.results)
	health := NewHealthHandler(fakeLLM{})

	s.app = fiber.New()
	api := s.app.Group("/api/v1")
	api.Get("/health", health.HandleHealth)
	api.Get("/info", health.HandleInfo)
	api.Post("/upload", upload.HandleUpload)
	api.Post("/evaluate", evaluation.HandleEvaluate)
	api.Post("/evaluations", evaluation.HandleEnqueue)
	api.Get("/result/:id", result.HandleGetResult)
	api.Post("/ai-interview/start-session", interviews.HandleStartSession)
	api.Post("/ai-interview/submit-answer", interviews.HandleSubmitAnswer)
	api.Get("/ai-interview/evaluate/:sessionId", interviews.HandleEvaluate)
	api.Get("/ai-interview/report/:sessionId", interviews.HandleReport)
	api.Get("/interviews", stored.HandleList)
	api.Get("/interviews/:candidateId", stored.HandleByCandidate)
	return s
}

func (s *testServer) do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func (s *testServer) postJSON(t *testing.T, path string, payload any, out any) int {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, out)
}

func (s *testServer) get(t *testing.T, path string, out any) int {
	t.Helper()
	return s.do(t, httptest.NewRequest(http.MethodGet, path, nil), out)
}

func TestEvaluate(t *testing.T) {
	s := newTestServer(t)

	var resp models.EvaluateResponse
	status := s.postJSON(t, "/api/v1/evaluate", fiber.Map{
		"resume":         "Jane Doe\nGo developer",
		"jobDescription": jobText,
	}, &resp)

	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "Jane Doe", resp.Report.CandidateProfile.Name)
	assert.Equal(t, models.RecommendHire, resp.Report.FinalRecommendation)
}

func TestEvaluate_Validation(t *testing.T) {
	s := newTestServer(t)

	var body map[string]string
	status := s.postJSON(t, "/api/v1/evaluate", fiber.Map{"resume": "Jane Doe\nGo"}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "jobDescription is required", body["error"])

	status = s.postJSON(t, "/api/v1/evaluate", fiber.Map{"jobDescription": jobText}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestEvaluate_StageFailureNamesStage(t *testing.T) {
	s := newTestServer(t)
	s.ev.Fail(stages.MatchingStage, errors.New("503 from upstream"))

	var body map[string]string
	status := s.postJSON(t, "/api/v1/evaluate", fiber.Map{
		"resume":         "Jane Doe\nGo developer",
		"jobDescription": jobText,
	}, &body)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "matching", body["stage"])
	assert.Contains(t, body["error"], "503 from upstream")
}

func TestEvaluate_ResumeFieldIsText(t *testing.T) {
	s := newTestServer(t)
	secret := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("DB_PASSWORD=hunter2"), 0o600))

	for _, resume := range []string{
		secret,
		"Jane Doe - Senior Go engineer, 6 years with Kubernetes and PostgreSQL",
	} {
		status := s.postJSON(t, "/api/v1/evaluate", fiber.Map{
			"resume":         resume,
			"jobDescription": jobText,
		}, nil)
		assert.Equal(t, fiber.StatusOK, status, resume)
	}

	var prompts []string
	for _, req := range s.ev.Requests() {
		if req.Stage == string(stages.ResumeAnalysisStage) {
			prompts = append(prompts, req.UserPrompt)
		}
	}
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], secret)
	assert.NotContains(t, prompts[0], "hunter2")
	assert.Contains(t, prompts[1], "Jane Doe - Senior Go engineer")
}

func TestEnqueueAndResult(t *testing.T) {
	s := newTestServer(t)

	var queued models.EvaluationJobResponse
	status := s.postJSON(t, "/api/v1/evaluations", fiber.Map{
		"resume":         "Jane Doe\nGo developer",
		"jobDescription": jobText,
	}, &queued)
	require.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "queued", queued.Status)

	id := uuid.MustParse(queued.ID)
	require.Equal(t, []uuid.UUID{id}, s.worker.enqueued)

	var result models.ResultResponse
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/result/"+queued.ID, &result))
	assert.Equal(t, "queued", result.Status)
	assert.Nil(t, result.Report)

	report, err := json.Marshal(models.EvaluationReport{MatchScore: 82})
	require.NoError(t, err)
	job, _ := s.jobs.FindByID(id)
	job.Status = models.StatusCompleted
	job.Report = datatypes.JSON(report)

	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/result/"+queued.ID, &result))
	require.NotNil(t, result.Report)
	assert.Equal(t, 82.0, result.Report.MatchScore)
}

func TestResult_Failed(t *testing.T) {
	s := newTestServer(t)
	stage, msg := "bias_check", "bias_check: timeout"
	job := &models.EvaluationJob{ID: uuid.New(), Status: models.StatusFailed, FailedStage: &stage, ErrorMessage: &msg}
	require.NoError(t, s.jobs.Create(job))

	var result models.ResultResponse
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/result/"+job.ID.String(), &result))
	require.NotNil(t, result.FailedStage)
	assert.Equal(t, "bias_check", *result.FailedStage)

	assert.Equal(t, fiber.StatusNotFound, s.get(t, "/api/v1/result/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusBadRequest, s.get(t, "/api/v1/result/not-a-uuid", nil))
}

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	var doc models.UploadResponse
	status := s.do(t, multipartRequest(t, "resume", "jane.txt", "Jane Doe\nGo developer"), &doc)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "jane.txt", doc.OriginalName)
	assert.Equal(t, "resume", doc.FileType)
	require.Len(t, s.docs.docs, 1)

	var body map[string]string
	status = s.do(t, multipartRequest(t, "resume", "jane.docx", "binary"), &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], ".docx")

	status = s.do(t, multipartRequest(t, "cv", "jane.pdf", "%PDF"), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

type failingDocs struct{ memoryDocs }

func (failingDocs) Create(*models.Document) error { return errors.New("db down") }

type stuckStorage struct {
	services.StorageService
	deleted string
}

func (s *stuckStorage) DeleteFile(filename string) error {
	s.deleted = filename
	return errors.New("permission denied")
}

func TestUpload_LogsFailedCleanup(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	storage := &stuckStorage{StorageService: services.NewStorageService(t.TempDir())}
	upload := NewUploadHandler(&failingDocs{}, storage, 1<<20, zap.New(core))

	app := fiber.New()
	app.Post("/api/v1/upload", upload.HandleUpload)

	resp, err := app.Test(multipartRequest(t, "resume", "jane.txt", "Jane Doe\nGo developer"), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	assert.NotEmpty(t, storage.deleted)
	require.Equal(t, 1, logs.FilterMessage("failed to remove orphaned upload").Len())
	entry := logs.FilterMessage("failed to remove orphaned upload").All()[0]
	assert.Equal(t, storage.deleted, entry.ContextMap()["filename"])
	assert.Equal(t, 1, logs.FilterMessage("failed to save document record").Len())
}

func TestEvaluate_FromUploadedDocument(t *testing.T) {
	s := newTestServer(t)

	var doc models.UploadResponse
	require.Equal(t, fiber.StatusCreated, s.do(t, multipartRequest(t, "resume", "jane.txt", "Jane Doe\nGo developer"), &doc))

	var resp models.EvaluateResponse
	status := s.postJSON(t, "/api/v1/evaluate", fiber.Map{
		"documentId":     doc.ID,
		"jobDescription": jobText,
	}, &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, resp.Success)
}

func startSession(t *testing.T, s *testServer) models.StartSessionResponse {
	t.Helper()
	var started models.StartSessionResponse
	status := s.postJSON(t, "/api/v1/ai-interview/start-session", fiber.Map{
		"candidateId": "cand-1",
		"jobId":       "job-1",
		"candidateProfile": fiber.Map{
			"name":  "Jane Doe",
			"email": "jane@example.com",
		},
		"experienceYears": 5,
		"primarySkills":   []string{"Go", "PostgreSQL"},
	}, &started)
	require.Equal(t, fiber.StatusOK, status)
	return started
}

func TestInterviewFlow(t *testing.T) {
	s := newTestServer(t)
	s.ev.Sequence(stages.InterviewTurnStage, stagestest.TurnText, "END_INTERVIEW")

	started := startSession(t, s)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, "cand-1", started.CandidateID)
	assert.Equal(t, 3, started.TotalQuestions)
	assert.Len(t, started.Questions, 3)
	assert.Equal(t, "How do you structure a Go service?", started.CurrentQuestion)
	assert.Equal(t, interviewType, started.InterviewType)
	assert.False(t, started.Degraded)
	// The supplied profile skips resume analysis.
	assert.Equal(t, 0, s.ev.Calls(stages.ResumeAnalysisStage))

	evalPath := "/api/v1/ai-interview/evaluate/" + started.SessionID
	assert.Equal(t, fiber.StatusConflict, s.get(t, evalPath, nil))

	var answer models.SubmitAnswerResponse
	require.Equal(t, fiber.StatusOK, s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": started.SessionID,
		"answer":    "Small packages behind interfaces.",
	}, &answer))
	require.NotNil(t, answer.NextQuestion)
	assert.Equal(t, "How did you handle retries in the payment API?", *answer.NextQuestion)
	assert.False(t, answer.IsComplete)

	require.Equal(t, fiber.StatusOK, s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": started.SessionID,
		"answer":    "Exponential backoff with jitter.",
	}, &answer))
	assert.Nil(t, answer.NextQuestion)
	assert.True(t, answer.IsComplete)

	var eval models.InterviewEvaluationResponse
	require.Equal(t, fiber.StatusOK, s.get(t, evalPath, &eval))
	assert.Equal(t, started.SessionID, eval.SessionID)
	assert.Equal(t, 78.0, eval.OverallScore)
	assert.Equal(t, recommended, eval.Recommendation)

	require.Len(t, s.results.saved, 1)
	saved := s.results.saved[0]
	assert.Equal(t, "cand-1", saved.CandidateID)
	assert.Equal(t, "Jane Doe", saved.CandidateName)
	assert.Equal(t, models.InterviewPassed, saved.Status)
	assert.Equal(t, 2, saved.TotalQuestions)

	var report models.EvaluateResponse
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/ai-interview/report/"+started.SessionID, &report))
	assert.Equal(t, 78.0, report.Report.InterviewScore)
	require.NotNil(t, report.Report.DetailedAnalysis.TechnicalEvaluation)
	// Scored once and reused by the report.
	assert.Equal(t, 1, s.ev.Calls(stages.TechnicalEvaluationStage))

	var list []models.InterviewResult
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/interviews/cand-1", &list))
	assert.Len(t, list, 1)
}

func completedSession(t *testing.T, s *testServer) string {
	t.Helper()
	s.ev.Text(stages.InterviewTurnStage, stages.EndSentinel)
	started := startSession(t, s)

	var answer models.SubmitAnswerResponse
	require.Equal(t, fiber.StatusOK, s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": started.SessionID,
		"answer":    "Small packages behind interfaces.",
	}, &answer))
	require.True(t, answer.IsComplete)
	return started.SessionID
}

func TestInterview_ReportIsBuiltOnce(t *testing.T) {
	s := newTestServer(t)
	id := completedSession(t, s)
	s.ev.Sequence(stages.DecisionStage,
		stagestest.DecisionJSON,
		`{"recommendation": "reject", "confidence": 60, "riskLevel": "medium", "reasoning": ["Weak answers"]}`,
	)

	var first, second models.EvaluateResponse
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/ai-interview/report/"+id, &first))
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/ai-interview/report/"+id, &second))

	assert.Equal(t, 1, s.ev.Calls(stages.DecisionStage))
	assert.Equal(t, models.RecommendHire, first.Report.FinalRecommendation)
	assert.Equal(t, models.RiskLow, first.Report.RiskLevel)
	assert.Equal(t, first.Report, second.Report)
}

func TestInterview_ConcurrentEvaluationsAgree(t *testing.T) {
	s := newTestServer(t)
	id := completedSession(t, s)
	s.ev.Sequence(stages.TechnicalEvaluationStage,
		stagestest.TechnicalJSON,
		`{"overallScore": 41}`,
	)

	var wg sync.WaitGroup
	scores := make([]float64, 2)
	for i := range scores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var eval models.InterviewEvaluationResponse
			if s.get(t, "/api/v1/ai-interview/evaluate/"+id, &eval) == fiber.StatusOK && eval.TechnicalEvaluation != nil {
				scores[i] = eval.OverallScore
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, scores[0], scores[1])
	require.NotEmpty(t, s.results.saved)
	for _, saved := range s.results.saved {
		var stored models.InterviewEvaluationResponse
		require.NoError(t, json.Unmarshal(saved.Evaluation, &stored))
		assert.Equal(t, scores[0], stored.OverallScore)
	}
}

func TestInterview_SubmitErrors(t *testing.T) {
	s := newTestServer(t)
	started := startSession(t, s)

	var body map[string]string
	status := s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": "missing",
		"answer":    "hello",
	}, &body)
	assert.Equal(t, fiber.StatusNotFound, status)

	status = s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": started.SessionID,
		"answer":    "   ",
	}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	s.ev.Fail(stages.InterviewTurnStage, errors.New("model unavailable"))
	status = s.postJSON(t, "/api/v1/ai-interview/submit-answer", fiber.Map{
		"sessionId": started.SessionID,
		"answer":    "an answer",
	}, &body)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "interview_turn", body["stage"])

	assert.Equal(t, fiber.StatusNotFound, s.get(t, "/api/v1/ai-interview/report/missing", nil))
}

func TestInterview_StartRequiresResumeOrProfile(t *testing.T) {
	s := newTestServer(t)

	var body map[string]string
	status := s.postJSON(t, "/api/v1/ai-interview/start-session", fiber.Map{"candidateId": "cand-1"}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = s.postJSON(t, "/api/v1/ai-interview/start-session", fiber.Map{"resumeText": "Jane\nGo"}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "candidateId is required", body["error"])
}

func TestInterview_StartFromOneLineResume(t *testing.T) {
	s := newTestServer(t)

	var started models.StartSessionResponse
	status := s.postJSON(t, "/api/v1/ai-interview/start-session", fiber.Map{
		"candidateId": "cand-2",
		"resumeText":  "Jane Doe - Senior Go engineer, 6 years with Kubernetes",
	}, &started)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, 1, s.ev.Calls(stages.ResumeAnalysisStage))
}

func TestInterview_StartUsesGenericJobDescription(t *testing.T) {
	s := newTestServer(t)
	startSession(t, s)

	for _, req := range s.ev.Requests() {
		if req.Stage == string(stages.JobAnalysisStage) {
			assert.Contains(t, req.UserPrompt, GenericJobDescription)
			return
		}
	}
	t.Fatal("job analysis was not called")
}

func TestHealthAndInfo(t *testing.T) {
	s := newTestServer(t)

	var health map[string]any
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/health", &health))
	assert.Equal(t, "connected", health["llm"])
	assert.Equal(t, "gemini-test", health["model"])

	var info struct {
		Stages []string `json:"stages"`
	}
	require.Equal(t, fiber.StatusOK, s.get(t, "/api/v1/info", &info))
	assert.Contains(t, info.Stages, "interview_turn")
}

func TestSessionQuestions(t *testing.T) {
	plan := &models.InterviewPlan{
		Sections: []models.InterviewSection{
			{Topic: "", Questions: []string{"a", "b"}},
			{Topic: "Go", Questions: []string{"c"}},
		},
		EstimatedDuration: 15,
		DifficultyLevel:   models.DifficultySenior,
	}

	got := sessionQuestions(plan)
	require.Len(t, got, 3)
	assert.Equal(t, models.SessionQuestion{ID: "q1", Question: "a", Category: defaultCategory, Difficulty: "senior", ExpectedDuration: 5}, got[0])
	assert.Equal(t, "q3", got[2].ID)
	assert.Equal(t, "Go", got[2].Category)
	assert.Empty(t, sessionQuestions(&models.InterviewPlan{}))
}
