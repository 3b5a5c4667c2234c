package models

import "strings"

type BiasStatus string

const (
	BiasPass BiasStatus = "pass"
	BiasFail BiasStatus = "fail"
)

// BiasCheck is the fairness verdict. Each sub-check is true when no bias was
// detected.
type BiasCheck struct {
	Status        BiasStatus `json:"status"`
	Checks        BiasChecks `json:"checks"`
	Warnings      []string   `json:"warnings"`
	FairnessScore float64    `json:"fairnessScore"`
}

type BiasChecks struct {
	NameBasedBias   bool `json:"nameBasedBias"`
	GenderBias      bool `json:"genderBias"`
	LocationBias    bool `json:"locationBias"`
	InstitutionBias bool `json:"institutionBias"`
}

func (c BiasChecks) AllClear() bool {
	return c.NameBasedBias && c.GenderBias && c.LocationBias && c.InstitutionBias
}

func (b *BiasCheck) Failed() bool {
	return b != nil && b.Status == BiasFail
}

type Recommendation string

const (
	RecommendHire     Recommendation = "hire"
	RecommendConsider Recommendation = "consider"
	RecommendReject   Recommendation = "reject"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type FinalDecision struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	RiskLevel      RiskLevel      `json:"riskLevel"`
	Reasoning      []string       `json:"reasoning"`
	KeyFactors     KeyFactors     `json:"keyFactors"`
	NextSteps      []string       `json:"nextSteps,omitempty"`
}

type KeyFactors struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// BiasWarning prefixes the decision reasoning whenever the bias check failed.
const BiasWarning = "WARNING: Bias check failed - evaluation may be unfair"

// ParseRecommendation maps free-form labels onto the three recommendations.
func ParseRecommendation(raw string) Recommendation {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hire", "strong hire", "strong_hire":
		return RecommendHire
	case "reject", "no hire", "no_hire", "not a fit":
		return RecommendReject
	default:
		return RecommendConsider
	}
}

// ParseRiskLevel treats anything unrecognized as high risk.
func ParseRiskLevel(raw string) RiskLevel {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func (b *BiasCheck) FillDefaults() {
	b.Warnings = orEmpty(b.Warnings)
	b.FairnessScore = Clamp(b.FairnessScore, 0, 100)
	if b.Status != BiasFail {
		b.Status = BiasPass
	}
}

func (d *FinalDecision) FillDefaults() {
	d.Confidence = Clamp(d.Confidence, 0, 100)
	d.Reasoning = orEmpty(d.Reasoning)
	d.KeyFactors.Positive = orEmpty(d.KeyFactors.Positive)
	d.KeyFactors.Negative = orEmpty(d.KeyFactors.Negative)
	d.NextSteps = orEmpty(d.NextSteps)
}
