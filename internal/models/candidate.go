package models

// CandidateProfile is the normalized view of a resume.
type CandidateProfile struct {
	ID                     string          `json:"id,omitempty"`
	Name                   string          `json:"name"`
	Email                  string          `json:"email"`
	Phone                  string          `json:"phone"`
	Location               string          `json:"location"`
	Headline               string          `json:"headline"`
	Summary                string          `json:"summary"`
	Links                  CandidateLinks  `json:"links"`
	Skills                 SkillSet        `json:"skills"`
	Experience             []Experience    `json:"experience"`
	Education              []Education     `json:"education"`
	Projects               []Project       `json:"projects"`
	Certifications         []Certification `json:"certifications"`
	Achievements           []string        `json:"achievements"`
	TotalYearsOfExperience float64         `json:"totalYearsOfExperience"`
	WeakClaims             []string        `json:"weakClaims"`
	Exaggerations          []string        `json:"exaggerations"`
}

type CandidateLinks struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

type Experience struct {
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies,omitempty"`
	Impact           string   `json:"impact,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        string `json:"year"`
	Grade       string `json:"grade,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Role         string   `json:"role,omitempty"`
	Outcome      string   `json:"outcome,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year,omitempty"`
}

// IsPopulated reports whether the profile carries enough detail to skip
// resume analysis.
func (c *CandidateProfile) IsPopulated() bool {
	if c == nil || c.Name == "" {
		return false
	}
	return len(c.Skills.Technical) > 0 || len(c.Experience) > 0
}

// FillDefaults replaces nil collections with empty ones so the profile
// serializes with lists rather than nulls.
func (c *CandidateProfile) FillDefaults() {
	c.Skills.Technical = orEmpty(c.Skills.Technical)
	c.Skills.Soft = orEmpty(c.Skills.Soft)
	c.Skills.Tools = orEmpty(c.Skills.Tools)
	if c.Experience == nil {
		c.Experience = []Experience{}
	}
	for i := range c.Experience {
		c.Experience[i].Responsibilities = orEmpty(c.Experience[i].Responsibilities)
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	for i := range c.Projects {
		c.Projects[i].Technologies = orEmpty(c.Projects[i].Technologies)
	}
	if c.Certifications == nil {
		c.Certifications = []Certification{}
	}
	c.Achievements = orEmpty(c.Achievements)
	c.WeakClaims = orEmpty(c.WeakClaims)
	c.Exaggerations = orEmpty(c.Exaggerations)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
