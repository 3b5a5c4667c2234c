package stages

import (
	"context"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var matchAliases = []alias{
	{"overallScore", []string{"matchScore", "score", "overallMatch"}},
	{"skillMatch", []string{"skillsMatch", "skills"}},
	{"experienceMatch", []string{"experience"}},
	{"gaps", []string{"weaknesses", "missingRequirements"}},
}

type Matching struct {
	runner *Runner
}

func (s *Matching) Name() Name { return MatchingStage }

// Run implements Stage. Scores are clamped to [0, 100].
func (s *Matching) Run(ctx context.Context, in MatchInput) (*models.MatchAnalysis, error) {
	match := &models.MatchAnalysis{}
	err := s.runner.generateJSON(ctx, MatchingStage, services.GenerateRequest{
		SystemPrompt: matchSystemPrompt,
		UserPrompt:   matchPrompt(in),
		Temperature:  0.3,
		MaxTokens:    2500,
	}, normalizeMatch, match)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func normalizeMatch(m map[string]any) map[string]any {
	m = unwrap(m, "matchAnalysis")
	applyAliases(m, matchAliases)
	if _, ok := m["skillMatch"].(map[string]any); !ok {
		delete(m, "skillMatch")
	}
	if _, ok := m["experienceMatch"].(map[string]any); !ok {
		delete(m, "experienceMatch")
	}
	return m
}
