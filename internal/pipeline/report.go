package pipeline

import (
	"time"

	"alfredoptarigan/talent-scout/internal/models"
)

// BuildReport projects the run artifacts into an EvaluationReport. The bias
// override is applied to the decision first.
func BuildReport(prep *Preparation, tech *models.TechnicalEvaluation, decision *models.FinalDecision, at time.Time) *models.EvaluationReport {
	final := ApplyBiasOverride(decision, prep.Bias)

	report := &models.EvaluationReport{
		CandidateProfile:    prep.Candidate,
		JobProfile:          prep.Job,
		MatchScore:          prep.Match.OverallScore,
		RiskLevel:           final.RiskLevel,
		FinalRecommendation: final.Recommendation,
		Confidence:          final.Confidence,
		Explanation:         append([]string{}, final.Reasoning...),
		Degraded:            prep.Degraded,
		Timestamp:           at,
		DetailedAnalysis: models.DetailedAnalysis{
			MatchAnalysis:       prep.Match,
			TechnicalEvaluation: tech,
			InterviewPlan:       prep.Plan,
			FinalDecision:       final,
		},
	}
	if prep.Bias != nil {
		report.BiasCheck = *prep.Bias
	}
	if tech != nil {
		report.InterviewScore = tech.OverallScore
	}
	return report
}
