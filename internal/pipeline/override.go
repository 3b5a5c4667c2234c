package pipeline

import "alfredoptarigan/talent-scout/internal/models"

// ApplyBiasOverride returns a copy of decision that honors the bias verdict:
// a failed check forces high risk and leads the reasoning with BiasWarning.
func ApplyBiasOverride(decision *models.FinalDecision, bias *models.BiasCheck) *models.FinalDecision {
	out := *decision
	out.Reasoning = append([]string(nil), decision.Reasoning...)
	if !bias.Failed() {
		return &out
	}

	out.RiskLevel = models.RiskHigh
	if len(out.Reasoning) == 0 || out.Reasoning[0] != models.BiasWarning {
		out.Reasoning = append([]string{models.BiasWarning}, out.Reasoning...)
	}
	return &out
}
