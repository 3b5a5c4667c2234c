package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/stages"
	"alfredoptarigan/talent-scout/internal/stages/stagestest"
)

// turnFunc adapts a function to the interview turn stage.
type turnFunc func(ctx context.Context, in stages.TurnInput) (stages.TurnResult, error)

func (f turnFunc) Name() stages.Name { return stages.InterviewTurnStage }

func (f turnFunc) Run(ctx context.Context, in stages.TurnInput) (stages.TurnResult, error) {
	return f(ctx, in)
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func testPlan() *models.InterviewPlan {
	return &models.InterviewPlan{
		Sections: []models.InterviewSection{
			{Topic: "Intro"},
			{Topic: "Go", Questions: []string{"How do you structure a Go service?", "What is a goroutine leak?"}},
		},
	}
}

func startSession(t *testing.T, m *Manager, plan *models.InterviewPlan) *Session {
	t.Helper()
	s, err := m.Start(context.Background(), StartParams{
		CandidateID: "cand-1",
		JobID:       "job-1",
		Candidate:   &models.CandidateProfile{Name: "Jane Doe"},
		Job:         &models.JobProfile{Title: "Senior Go Engineer"},
		Plan:        plan,
	})
	require.NoError(t, err)
	return s
}

func TestManager_StartUsesFirstPlannedQuestion(t *testing.T) {
	m := NewManager(NewMemoryStore(0), nil, Options{Now: fixedClock()})
	s := startSession(t, m, testPlan())

	require.NotNil(t, s.CurrentQuestion)
	assert.Equal(t, "How do you structure a Go service?", *s.CurrentQuestion)
	assert.Equal(t, StateActive, s.State())
	assert.Empty(t, s.Answers)
}

func TestManager_StartWithEmptyPlanUsesOpener(t *testing.T) {
	m := NewManager(NewMemoryStore(0), nil, Options{})

	for _, plan := range []*models.InterviewPlan{nil, {}, {Sections: []models.InterviewSection{{Topic: "x"}}}} {
		s := startSession(t, m, plan)
		require.NotNil(t, s.CurrentQuestion)
		assert.Equal(t, GenericOpener, *s.CurrentQuestion)
	}
}

func TestManager_SubmitAdvances(t *testing.T) {
	var seen stages.TurnInput
	turn := turnFunc(func(_ context.Context, in stages.TurnInput) (stages.TurnResult, error) {
		seen = in
		return stages.TurnResult{NextQuestion: "How did you handle retries in the payment API?"}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{Now: fixedClock()})
	s := startSession(t, m, testPlan())

	next, err := m.Submit(context.Background(), s.ID, "  With small packages.  ")
	require.NoError(t, err)

	require.NotNil(t, next.CurrentQuestion)
	assert.Equal(t, "How did you handle retries in the payment API?", *next.CurrentQuestion)
	require.Len(t, next.Answers, 1)
	assert.Equal(t, "How do you structure a Go service?", next.Answers[0].Question)
	assert.Equal(t, "With small packages.", next.Answers[0].Answer)

	assert.Equal(t, "With small packages.", seen.LatestAnswer)
	assert.Len(t, seen.History, 1)
	assert.Equal(t, "Jane Doe", seen.Candidate.Name)
}

func TestManager_EndSentinelCompletes(t *testing.T) {
	ev := stagestest.New()
	turn := stages.NewSet(stages.NewRunner(ev, time.Second, nil)).Turn

	for _, reply := range []string{"END_INTERVIEW", "end_interview", "Thanks! END_INTERVIEW.", `Interviewer: "End_Interview"`} {
		t.Run(reply, func(t *testing.T) {
			ev.Text(stages.InterviewTurnStage, reply)
			m := NewManager(NewMemoryStore(0), turn, Options{})
			s := startSession(t, m, testPlan())

			done, err := m.Submit(context.Background(), s.ID, "answer")
			require.NoError(t, err)
			assert.Nil(t, done.CurrentQuestion)
			assert.Equal(t, StateCompleted, done.State())
			assert.Len(t, done.Answers, 1)

			_, err = m.Submit(context.Background(), s.ID, "one more")
			assert.ErrorIs(t, err, ErrSessionCompleted)
		})
	}
}

func TestManager_AnswersAreAppendOnly(t *testing.T) {
	n := 0
	turn := turnFunc(func(context.Context, stages.TurnInput) (stages.TurnResult, error) {
		n++
		return stages.TurnResult{NextQuestion: fmt.Sprintf("Question %d", n)}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{})
	s := startSession(t, m, testPlan())

	for i := 0; i < 3; i++ {
		_, err := m.Submit(context.Background(), s.ID, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	got, err := m.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 3)
	assert.Equal(t, "How do you structure a Go service?", got.Answers[0].Question)
	assert.Equal(t, "Question 1", got.Answers[1].Question)
	assert.Equal(t, "Question 2", got.Answers[2].Question)
	for i, a := range got.Answers {
		assert.Equal(t, fmt.Sprintf("answer %d", i), a.Answer)
	}
	assert.Equal(t, "Question 3", *got.CurrentQuestion)
}

func TestManager_ConcurrentSubmitsAreSerialized(t *testing.T) {
	var mu sync.Mutex
	active, n := 0, 0
	turn := turnFunc(func(_ context.Context, in stages.TurnInput) (stages.TurnResult, error) {
		mu.Lock()
		active++
		overlap := active > 1
		n++
		next := fmt.Sprintf("Question %d", n)
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		if overlap {
			return stages.TurnResult{}, errors.New("overlapping turns")
		}
		return stages.TurnResult{NextQuestion: next}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{})
	s := startSession(t, m, testPlan())

	const submits = 10
	var wg sync.WaitGroup
	errs := make(chan error, submits)
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Submit(context.Background(), s.ID, fmt.Sprintf("answer %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := m.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, submits)
	assert.Equal(t, "How do you structure a Go service?", got.Answers[0].Question)
	for i := 1; i < submits; i++ {
		assert.Equal(t, fmt.Sprintf("Question %d", i), got.Answers[i].Question)
	}
}

func TestManager_MaxTurnsEndsWithoutCallingStage(t *testing.T) {
	calls := 0
	turn := turnFunc(func(context.Context, stages.TurnInput) (stages.TurnResult, error) {
		calls++
		return stages.TurnResult{NextQuestion: "Next?"}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{MaxTurns: 2})
	s := startSession(t, m, testPlan())

	_, err := m.Submit(context.Background(), s.ID, "first")
	require.NoError(t, err)
	done, err := m.Submit(context.Background(), s.ID, "second")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, StateCompleted, done.State())
	assert.Len(t, done.Answers, 2)
}

func TestManager_StageFailureLeavesSessionUnchanged(t *testing.T) {
	ev := stagestest.New().Fail(stages.InterviewTurnStage, errors.New("503"))
	m := NewManager(NewMemoryStore(0), stages.NewSet(stages.NewRunner(ev, time.Second, nil)).Turn, Options{})
	s := startSession(t, m, testPlan())

	_, err := m.Submit(context.Background(), s.ID, "answer")
	require.Error(t, err)
	assert.ErrorIs(t, err, stages.ErrUpstreamFailure)

	got, err := m.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
	assert.Equal(t, *s.CurrentQuestion, *got.CurrentQuestion)
}

func TestManager_RejectsBlankAnswer(t *testing.T) {
	m := NewManager(NewMemoryStore(0), nil, Options{})
	s := startSession(t, m, testPlan())

	_, err := m.Submit(context.Background(), s.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestManager_UnknownSession(t *testing.T) {
	m := NewManager(NewMemoryStore(0), nil, Options{})

	_, err := m.Submit(context.Background(), "missing", "answer")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SetTechnicalRequiresCompletedSession(t *testing.T) {
	turn := turnFunc(func(context.Context, stages.TurnInput) (stages.TurnResult, error) {
		return stages.TurnResult{End: true}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{})
	s := startSession(t, m, testPlan())
	tech := &models.TechnicalEvaluation{OverallScore: 78}

	_, err := m.SetTechnical(context.Background(), s.ID, tech)
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = m.Submit(context.Background(), s.ID, "answer")
	require.NoError(t, err)
	got, err := m.SetTechnical(context.Background(), s.ID, tech)
	require.NoError(t, err)
	assert.Equal(t, 78.0, got.Technical.OverallScore)

	got, err = m.SetTechnical(context.Background(), s.ID, &models.TechnicalEvaluation{OverallScore: 40})
	require.NoError(t, err)
	assert.Equal(t, 78.0, got.Technical.OverallScore)
}

func TestManager_SetReportKeepsFirst(t *testing.T) {
	turn := turnFunc(func(context.Context, stages.TurnInput) (stages.TurnResult, error) {
		return stages.TurnResult{End: true}, nil
	})
	m := NewManager(NewMemoryStore(0), turn, Options{})
	s := startSession(t, m, testPlan())
	first := &models.EvaluationReport{FinalRecommendation: models.RecommendHire}

	_, err := m.SetReport(context.Background(), s.ID, first)
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = m.Submit(context.Background(), s.ID, "answer")
	require.NoError(t, err)

	got, err := m.SetReport(context.Background(), s.ID, first)
	require.NoError(t, err)
	assert.Equal(t, first, got.Report)

	got, err = m.SetReport(context.Background(), s.ID, &models.EvaluationReport{FinalRecommendation: models.RecommendReject})
	require.NoError(t, err)
	assert.Equal(t, models.RecommendHire, got.Report.FinalRecommendation)
}
