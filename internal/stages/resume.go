package stages

import (
	"context"
	"strings"

	"alfredoptarigan/talent-scout/internal/models"
	"alfredoptarigan/talent-scout/internal/services"
)

// UnknownCandidate names a candidate whose resume carries no name.
const UnknownCandidate = "Unknown Candidate"

// resumeAliases maps the alternate layouts models use for contact details.
var resumeAliases = []alias{
	{"name", []string{"personalInfo.name", "personalInfo.fullName", "personalContact.name", "personalContact.fullName", "fullName"}},
	{"email", []string{"personalInfo.email", "personalContact.email", "contact.email"}},
	{"phone", []string{"personalInfo.phone", "personalContact.phone", "contact.phone"}},
	{"location", []string{"personalInfo.location", "personalContact.location", "contact.location"}},
	{"links", []string{"socialLinks", "professionalLinks"}},
	{"links.portfolio", []string{"links.website", "personalInfo.website", "personalContact.website"}},
	{"summary", []string{"professionalSummary", "profile"}},
	{"experience", []string{"workExperience", "employment"}},
	{"totalYearsOfExperience", []string{"yearsOfExperience", "totalExperienceYears"}},
}

var experienceAliases = []alias{
	{"role", []string{"title", "position"}},
	{"responsibilities", []string{"description", "highlights"}},
}

var educationAliases = []alias{
	{"institution", []string{"school", "university"}},
	{"field", []string{"major", "fieldOfStudy"}},
	{"year", []string{"graduationYear", "endDate"}},
}

type ResumeAnalysis struct {
	runner *Runner
}

func (s *ResumeAnalysis) Name() Name { return ResumeAnalysisStage }

// Run implements Stage.
func (s *ResumeAnalysis) Run(ctx context.Context, resume string) (*models.CandidateProfile, error) {
	profile := &models.CandidateProfile{}
	err := s.runner.generateJSON(ctx, ResumeAnalysisStage, services.GenerateRequest{
		SystemPrompt: resumeSystemPrompt,
		UserPrompt:   resumePrompt(resume),
		Temperature:  0.2,
		MaxTokens:    3000,
	}, normalizeResume, profile)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = UnknownCandidate
	}
	return profile, nil
}

func normalizeResume(m map[string]any) map[string]any {
	m = unwrap(m, "candidateProfile")
	applyAliases(m, resumeAliases)

	// A flat skills list is treated as technical skills.
	if list, ok := m["skills"].([]any); ok {
		m["skills"] = map[string]any{"technical": list}
	}
	for _, exp := range objects(m, "experience") {
		applyAliases(exp, experienceAliases)
	}
	for _, edu := range objects(m, "education") {
		applyAliases(edu, educationAliases)
	}
	objects(m, "projects")
	objects(m, "certifications")

	return m
}
