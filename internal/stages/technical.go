package stages

import (
	"context"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var technicalAliases = []alias{
	{"overallScore", []string{"score", "technicalScore"}},
	{"answerEvaluations", []string{"evaluations", "answers"}},
	{"bluffDetection", []string{"bluffing"}},
	{"weaknesses", []string{"gaps"}},
}

type TechnicalEvaluation struct {
	runner *Runner
}

func (s *TechnicalEvaluation) Name() Name { return TechnicalEvaluationStage }

// Run implements Stage.
func (s *TechnicalEvaluation) Run(ctx context.Context, in TechnicalInput) (*models.TechnicalEvaluation, error) {
	eval := &models.TechnicalEvaluation{}
	err := s.runner.generateJSON(ctx, TechnicalEvaluationStage, services.GenerateRequest{
		SystemPrompt: technicalSystemPrompt,
		UserPrompt:   technicalPrompt(in),
		Temperature:  0.2,
		MaxTokens:    3000,
	}, normalizeTechnical, eval)
	if err != nil {
		return nil, err
	}
	return eval, nil
}

func normalizeTechnical(m map[string]any) map[string]any {
	m = unwrap(m, "technicalEvaluation")
	applyAliases(m, technicalAliases)
	for _, a := range objects(m, "answerEvaluations") {
		for _, key := range []string{"depth", "correctness"} {
			if s, ok := a[key].(string); ok {
				a[key] = strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	if _, ok := m["depthAnalysis"].(map[string]any); !ok {
		delete(m, "depthAnalysis")
	}
	if _, ok := m["bluffDetection"].(map[string]any); !ok {
		delete(m, "bluffDetection")
	}
	return m
}
