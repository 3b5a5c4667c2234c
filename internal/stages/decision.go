package stages

import (
	"context"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var decisionAliases = []alias{
	{"recommendation", []string{"decision", "finalRecommendation"}},
	{"reasoning", []string{"reasons", "explanation"}},
	{"keyFactors.positive", []string{"positiveFactors", "strengths"}},
	{"keyFactors.negative", []string{"negativeFactors", "concerns"}},
	{"riskLevel", []string{"risk"}},
}

type Decision struct {
	runner *Runner
}

func (s *Decision) Name() Name { return DecisionStage }

// Run implements Stage. Unknown recommendations become consider and unknown
// risk becomes high.
func (s *Decision) Run(ctx context.Context, in DecisionInput) (*models.FinalDecision, error) {
	decision := &models.FinalDecision{}
	err := s.runner.generateJSON(ctx, DecisionStage, services.GenerateRequest{
		SystemPrompt: decisionSystemPrompt,
		UserPrompt:   decisionPrompt(in),
		Temperature:  0.2,
		MaxTokens:    2000,
	}, normalizeDecision, decision)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

func normalizeDecision(m map[string]any) map[string]any {
	m = unwrap(m, "finalDecision")
	applyAliases(m, decisionAliases)
	m["recommendation"] = string(models.ParseRecommendation(stringValue(m, "recommendation")))
	m["riskLevel"] = string(models.ParseRiskLevel(stringValue(m, "riskLevel")))
	if _, ok := m["keyFactors"].(map[string]any); !ok {
		delete(m, "keyFactors")
	}
	return m
}
