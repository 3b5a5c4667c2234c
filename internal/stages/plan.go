package stages

import (
	"context"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var planAliases = []alias{
	{"focus", []string{"focusAreas", "keyAreas"}},
	{"sections", []string{"topics", "rounds"}},
	{"estimatedDuration", []string{"duration", "estimatedDurationMinutes"}},
	{"difficultyLevel", []string{"difficulty", "level"}},
}

var sectionAliases = []alias{
	{"topic", []string{"title", "name", "area"}},
	{"purpose", []string{"objective", "goal"}},
}

type InterviewPlanning struct {
	runner *Runner
}

func (s *InterviewPlanning) Name() Name { return InterviewPlanningStage }

// Run implements Stage. A plan without any question is a malformed response.
func (s *InterviewPlanning) Run(ctx context.Context, in PlanInput) (*models.InterviewPlan, error) {
	plan := &models.InterviewPlan{}
	err := s.runner.generateJSON(ctx, InterviewPlanningStage, services.GenerateRequest{
		SystemPrompt: planSystemPrompt,
		UserPrompt:   planPrompt(in),
		Temperature:  0.2,
		MaxTokens:    2500,
	}, normalizePlan, plan)
	if err != nil {
		return nil, err
	}

	if plan.QuestionCount() == 0 {
		return nil, Malformed(InterviewPlanningStage, "plan has no questions")
	}
	return plan, nil
}

func normalizePlan(m map[string]any) map[string]any {
	m = unwrap(m, "interviewPlan")
	applyAliases(m, planAliases)

	if level, ok := m["difficultyLevel"].(string); ok {
		m["difficultyLevel"] = strings.ToLower(strings.TrimSpace(level))
	}
	for _, section := range objects(m, "sections") {
		applyAliases(section, sectionAliases)
		section["questions"] = questionTexts(section["questions"])
	}
	return m
}

// questionTexts flattens question objects such as {"question": "..."} into
// plain strings and drops blanks.
func questionTexts(v any) []any {
	list, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok {
			list = []any{s}
		}
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		var text string
		switch t := item.(type) {
		case string:
			text = t
		case map[string]any:
			text = stringValue(t, "question")
			if text == "" {
				text = stringValue(t, "text")
			}
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}
