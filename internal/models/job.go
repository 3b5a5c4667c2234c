package models

// JobProfile is the normalized view of a job description.
type JobProfile struct {
	Title                string     `json:"title"`
	Company              string     `json:"company,omitempty"`
	Description          string     `json:"description"`
	MandatorySkills      []string   `json:"mandatorySkills"`
	OptionalSkills       []string   `json:"optionalSkills"`
	ExperienceRequired   YearsRange `json:"experienceRequired"`
	Responsibilities     []string   `json:"responsibilities"`
	Qualifications       []string   `json:"qualifications"`
	CriticalCompetencies []string   `json:"criticalCompetencies"`
}

type YearsRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (j *JobProfile) FillDefaults() {
	j.MandatorySkills = orEmpty(j.MandatorySkills)
	j.OptionalSkills = orEmpty(j.OptionalSkills)
	j.Responsibilities = orEmpty(j.Responsibilities)
	j.Qualifications = orEmpty(j.Qualifications)
	j.CriticalCompetencies = orEmpty(j.CriticalCompetencies)
	if j.ExperienceRequired.Min < 0 {
		j.ExperienceRequired.Min = 0
	}
	if j.ExperienceRequired.Max < j.ExperienceRequired.Min {
		j.ExperienceRequired.Max = j.ExperienceRequired.Min
	}
}
