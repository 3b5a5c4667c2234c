package models

import "time"

// EvaluationReport is the terminal artifact of one pipeline run.
type EvaluationReport struct {
	CandidateProfile    *CandidateProfile `json:"candidateProfile"`
	JobProfile          *JobProfile       `json:"jobProfile"`
	MatchScore          float64           `json:"matchScore"`
	InterviewScore      float64           `json:"interviewScore"`
	BiasCheck           BiasCheck         `json:"biasCheck"`
	RiskLevel           RiskLevel         `json:"riskLevel"`
	FinalRecommendation Recommendation    `json:"finalRecommendation"`
	Confidence          float64           `json:"confidence"`
	Explanation         []string          `json:"explanation"`
	Degraded            bool              `json:"degraded"`
	Timestamp           time.Time         `json:"timestamp"`
	DetailedAnalysis    DetailedAnalysis  `json:"detailedAnalysis"`
}

type DetailedAnalysis struct {
	MatchAnalysis       *MatchAnalysis       `json:"matchAnalysis"`
	TechnicalEvaluation *TechnicalEvaluation `json:"technicalEvaluation,omitempty"`
	InterviewPlan       *InterviewPlan       `json:"interviewPlan,omitempty"`
	FinalDecision       *FinalDecision       `json:"finalDecision"`
}
