package stagestest

import "alfredoptarigan/talent-scout/internal/stages"

const (
	ResumeJSON = `{
  "name": "Jane Doe",
  "email": "jane@example.com",
  "location": "Jakarta",
  "skills": {"technical": ["Go", "PostgreSQL", "Kubernetes"], "soft": ["communication"], "tools": ["Docker"]},
  "experience": [{"company": "Acme", "role": "Backend Engineer", "duration": "2019-2024", "responsibilities": ["Built payment APIs"]}],
  "education": [{"institution": "State University", "degree": "BSc", "field": "Computer Science", "year": "2018"}],
  "totalYearsOfExperience": 5
}`

	JobJSON = `{
  "title": "Senior Go Engineer",
  "mandatorySkills": ["Go", "PostgreSQL"],
  "optionalSkills": ["Kubernetes"],
  "experienceRequired": {"min": 4, "max": 8}
}`

	MatchJSON = `{
  "overallScore": 82,
  "skillMatch": {"score": 90, "matched": ["Go", "PostgreSQL"], "missing": [], "extra": ["Kubernetes"]},
  "experienceMatch": {"score": 80, "yearsRequired": 4, "yearsCandidate": 5, "relevant": true},
  "strengths": ["Strong Go background"],
  "gaps": [],
  "redFlags": [],
  "recommendation": "Proceed to interview"
}`

	PlanJSON = `{
  "focus": ["Go", "Databases"],
  "sections": [
    {"topic": "Go", "questions": ["How do you structure a Go service?", "Explain goroutine leaks."], "purpose": "Depth in Go", "weight": 0.6},
    {"topic": "Databases", "questions": ["How do you tune a slow PostgreSQL query?"], "purpose": "Data skills", "weight": 0.4}
  ],
  "estimatedDuration": 20,
  "difficultyLevel": "senior"
}`

	TurnText = "Interviewer: How did you handle retries in the payment API?"

	TechnicalJSON = `{
  "overallScore": 78,
  "answerEvaluations": [{"question": "How do you structure a Go service?", "answer": "By domain packages.", "score": 8, "reasoning": "Clear", "depth": "moderate", "correctness": "correct"}],
  "depthAnalysis": {"superficial": 0, "moderate": 100, "deep": 0},
  "bluffDetection": {"detected": false, "instances": []},
  "strengths": ["Pragmatic"],
  "weaknesses": []
}`

	BiasPassJSON = `{
  "status": "pass",
  "checks": {"nameBasedBias": true, "genderBias": true, "locationBias": true, "institutionBias": true},
  "warnings": [],
  "fairnessScore": 95
}`

	BiasFailJSON = `{
  "status": "fail",
  "checks": {"nameBasedBias": true, "genderBias": true, "locationBias": false, "institutionBias": true},
  "warnings": ["Location influenced the score"],
  "fairnessScore": 40
}`

	DecisionJSON = `{
  "recommendation": "hire",
  "confidence": 88,
  "riskLevel": "low",
  "reasoning": ["Strong skill match", "Relevant experience"],
  "keyFactors": {"positive": ["Go expertise"], "negative": []}
}`
)

// Fixtures holds one valid response per stage.
var Fixtures = map[stages.Name]string{
	stages.ResumeAnalysisStage:      ResumeJSON,
	stages.JobAnalysisStage:         JobJSON,
	stages.MatchingStage:            MatchJSON,
	stages.InterviewPlanningStage:   PlanJSON,
	stages.InterviewTurnStage:       TurnText,
	stages.TechnicalEvaluationStage: TechnicalJSON,
	stages.BiasCheckStage:           BiasPassJSON,
	stages.DecisionStage:            DecisionJSON,
}
