package stages

import (
	"context"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var biasAliases = []alias{
	{"checks", []string{"biasChecks"}},
	{"fairnessScore", []string{"score", "fairness"}},
}

// biasCheckKeys are the sub-checks that default to true (no bias) when absent.
var biasCheckKeys = []string{"nameBasedBias", "genderBias", "locationBias", "institutionBias"}

type BiasCheck struct {
	runner *Runner
}

func (s *BiasCheck) Name() Name { return BiasCheckStage }

// Run implements Stage.
func (s *BiasCheck) Run(ctx context.Context, in BiasInput) (*models.BiasCheck, error) {
	check := &models.BiasCheck{}
	err := s.runner.generateJSON(ctx, BiasCheckStage, services.GenerateRequest{
		SystemPrompt: biasSystemPrompt,
		UserPrompt:   biasPrompt(in),
		Temperature:  0.1,
		MaxTokens:    1500,
	}, normalizeBias, check)
	if err != nil {
		return nil, err
	}
	return check, nil
}

func normalizeBias(m map[string]any) map[string]any {
	m = unwrap(m, "biasCheck")
	applyAliases(m, biasAliases)

	checks, ok := m["checks"].(map[string]any)
	if !ok {
		checks = map[string]any{}
	}
	for _, key := range biasCheckKeys {
		if _, present := checks[key]; !present || checks[key] == nil {
			checks[key] = true
		}
	}
	m["checks"] = checks

	switch strings.ToLower(stringValue(m, "status")) {
	case "pass", "passed":
		m["status"] = string(models.BiasPass)
	case "fail", "failed":
		m["status"] = string(models.BiasFail)
	default:
		m["status"] = string(models.BiasPass)
		for _, key := range biasCheckKeys {
			if isFalse(checks[key]) {
				m["status"] = string(models.BiasFail)
			}
		}
	}
	return m
}

func isFalse(v any) bool {
	switch t := v.(type) {
	case bool:
		return !t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "false")
	default:
		return false
	}
}
