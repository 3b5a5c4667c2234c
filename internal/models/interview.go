package models

import "time"

type DifficultyLevel string

const (
	DifficultyJunior DifficultyLevel = "junior"
	DifficultyMid    DifficultyLevel = "mid"
	DifficultySenior DifficultyLevel = "senior"
	DifficultyExpert DifficultyLevel = "expert"
)

// InterviewPlan is the script a session walks through.
type InterviewPlan struct {
	Focus             []string           `json:"focus"`
	Sections          []InterviewSection `json:"sections"`
	EstimatedDuration int                `json:"estimatedDuration"`
	DifficultyLevel   DifficultyLevel    `json:"difficultyLevel"`
}

type InterviewSection struct {
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
	Purpose   string   `json:"purpose"`
	Weight    float64  `json:"weight"`
}

type InterviewAnswer struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// QuestionCount returns the number of planned questions across all sections.
func (p *InterviewPlan) QuestionCount() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, s := range p.Sections {
		total += len(s.Questions)
	}
	return total
}

// FirstQuestion returns the first planned question, or "" when there is none.
func (p *InterviewPlan) FirstQuestion() string {
	if p == nil {
		return ""
	}
	for _, s := range p.Sections {
		for _, q := range s.Questions {
			if q != "" {
				return q
			}
		}
	}
	return ""
}

func (p *InterviewPlan) FillDefaults() {
	p.Focus = orEmpty(p.Focus)
	if p.Sections == nil {
		p.Sections = []InterviewSection{}
	}
	for i := range p.Sections {
		p.Sections[i].Questions = orEmpty(p.Sections[i].Questions)
		p.Sections[i].Weight = Clamp(p.Sections[i].Weight, 0, 1)
	}
	switch p.DifficultyLevel {
	case DifficultyJunior, DifficultyMid, DifficultySenior, DifficultyExpert:
	default:
		p.DifficultyLevel = DifficultyMid
	}
	if p.EstimatedDuration <= 0 {
		p.EstimatedDuration = 15
	}
}

// FallbackInterviewPlan is substituted when interview planning fails or
// exceeds its time budget.
func FallbackInterviewPlan() *InterviewPlan {
	return &InterviewPlan{
		Focus: []string{"Full Stack Development", "AI Integration", "System Design"},
		Sections: []InterviewSection{
			{
				Topic:   "Core Experience",
				Purpose: "General background verification",
				Questions: []string{
					"Tell me about your most significant project and the specific technologies you used.",
					"Walk me through a difficult technical problem you solved recently and how you approached it.",
				},
				Weight: 1,
			},
			{
				Topic:   "Collaboration & Growth",
				Purpose: "Soft skills and adaptability",
				Questions: []string{
					"How do you stay updated with rapidly evolving tech stacks like the one mentioned in your profile?",
					"Tell me about a time you had to explain a complex technical concept to a non-technical stakeholder.",
				},
				Weight: 1,
			},
		},
		EstimatedDuration: 15,
		DifficultyLevel:   DifficultyMid,
	}
}
