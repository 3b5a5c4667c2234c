package models

// MatchAnalysis relates a candidate to a job. Scores are on a 0-100 scale.
type MatchAnalysis struct {
	OverallScore    float64         `json:"overallScore"`
	SkillMatch      SkillMatch      `json:"skillMatch"`
	ExperienceMatch ExperienceMatch `json:"experienceMatch"`
	Strengths       []string        `json:"strengths"`
	Gaps            []string        `json:"gaps"`
	RedFlags        []string        `json:"redFlags"`
	Recommendation  string          `json:"recommendation"`
}

type SkillMatch struct {
	Score   float64  `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
	Extra   []string `json:"extra"`
}

type ExperienceMatch struct {
	Score          float64 `json:"score"`
	YearsRequired  float64 `json:"yearsRequired"`
	YearsCandidate float64 `json:"yearsCandidate"`
	Relevant       bool    `json:"relevant"`
}

func (m *MatchAnalysis) FillDefaults() {
	m.OverallScore = Clamp(m.OverallScore, 0, 100)
	m.SkillMatch.Score = Clamp(m.SkillMatch.Score, 0, 100)
	m.ExperienceMatch.Score = Clamp(m.ExperienceMatch.Score, 0, 100)
	m.SkillMatch.Matched = orEmpty(m.SkillMatch.Matched)
	m.SkillMatch.Missing = orEmpty(m.SkillMatch.Missing)
	m.SkillMatch.Extra = orEmpty(m.SkillMatch.Extra)
	m.Strengths = orEmpty(m.Strengths)
	m.Gaps = orEmpty(m.Gaps)
	m.RedFlags = orEmpty(m.RedFlags)
}

// Clamp bounds v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
