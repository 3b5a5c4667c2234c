package stages

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

var jobAliases = []alias{
	{"title", []string{"jobTitle", "role", "position"}},
	{"company", []string{"companyName", "organization"}},
	{"mandatorySkills", []string{"requiredSkills", "mustHaveSkills"}},
	{"optionalSkills", []string{"preferredSkills", "niceToHaveSkills"}},
	{"experienceRequired", []string{"experience", "yearsOfExperience", "requiredExperience"}},
}

var yearsPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

type JobAnalysis struct {
	runner *Runner
}

func (s *JobAnalysis) Name() Name { return JobAnalysisStage }

// Run implements Stage.
func (s *JobAnalysis) Run(ctx context.Context, description string) (*models.JobProfile, error) {
	profile := &models.JobProfile{}
	err := s.runner.generateJSON(ctx, JobAnalysisStage, services.GenerateRequest{
		SystemPrompt: jobSystemPrompt,
		UserPrompt:   jobPrompt(description),
		Temperature:  0.2,
		MaxTokens:    2000,
	}, normalizeJob, profile)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(profile.Description) == "" {
		profile.Description = strings.TrimSpace(description)
	}
	return profile, nil
}

func normalizeJob(m map[string]any) map[string]any {
	m = unwrap(m, "jobProfile")
	applyAliases(m, jobAliases)
	m["experienceRequired"] = yearsRange(m["experienceRequired"])
	return m
}

// yearsRange accepts {min, max}, a single number, or text such as "3-5 years".
func yearsRange(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case float64:
		return map[string]any{"min": t, "max": t}
	case string:
		nums := yearsPattern.FindAllString(t, 2)
		r := map[string]any{}
		if len(nums) > 0 {
			lo, _ := strconv.ParseFloat(nums[0], 64)
			r["min"], r["max"] = lo, lo
		}
		if len(nums) > 1 {
			hi, _ := strconv.ParseFloat(nums[1], 64)
			r["max"] = hi
		}
		return r
	default:
		return map[string]any{}
	}
}
