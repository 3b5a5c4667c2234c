package models

type AnswerDepth string

const (
	DepthSuperficial AnswerDepth = "superficial"
	DepthModerate    AnswerDepth = "moderate"
	DepthDeep        AnswerDepth = "deep"
)

type Correctness string

const (
	CorrectnessIncorrect Correctness = "incorrect"
	CorrectnessPartial   Correctness = "partial"
	CorrectnessCorrect   Correctness = "correct"
	CorrectnessExcellent Correctness = "excellent"
)

// TechnicalEvaluation scores a completed interview.
type TechnicalEvaluation struct {
	OverallScore      float64            `json:"overallScore"`
	AnswerEvaluations []AnswerEvaluation `json:"answerEvaluations"`
	DepthAnalysis     DepthAnalysis      `json:"depthAnalysis"`
	BluffDetection    BluffDetection     `json:"bluffDetection"`
	Strengths         []string           `json:"strengths"`
	Weaknesses        []string           `json:"weaknesses"`
}

type AnswerEvaluation struct {
	Question    string      `json:"question"`
	Answer      string      `json:"answer"`
	Score       float64     `json:"score"`
	Reasoning   string      `json:"reasoning"`
	Depth       AnswerDepth `json:"depth"`
	Correctness Correctness `json:"correctness"`
}

// DepthAnalysis holds the percentage of answers at each depth.
type DepthAnalysis struct {
	Superficial float64 `json:"superficial"`
	Moderate    float64 `json:"moderate"`
	Deep        float64 `json:"deep"`
}

type BluffDetection struct {
	Detected  bool     `json:"detected"`
	Instances []string `json:"instances"`
}

func (t *TechnicalEvaluation) FillDefaults() {
	t.OverallScore = Clamp(t.OverallScore, 0, 100)
	if t.AnswerEvaluations == nil {
		t.AnswerEvaluations = []AnswerEvaluation{}
	}
	for i := range t.AnswerEvaluations {
		a := &t.AnswerEvaluations[i]
		a.Score = Clamp(a.Score, 0, 10)
		switch a.Depth {
		case DepthSuperficial, DepthModerate, DepthDeep:
		default:
			a.Depth = DepthSuperficial
		}
		switch a.Correctness {
		case CorrectnessIncorrect, CorrectnessPartial, CorrectnessCorrect, CorrectnessExcellent:
		default:
			a.Correctness = CorrectnessPartial
		}
	}
	t.DepthAnalysis.Superficial = Clamp(t.DepthAnalysis.Superficial, 0, 100)
	t.DepthAnalysis.Moderate = Clamp(t.DepthAnalysis.Moderate, 0, 100)
	t.DepthAnalysis.Deep = Clamp(t.DepthAnalysis.Deep, 0, 100)
	t.BluffDetection.Instances = orEmpty(t.BluffDetection.Instances)
	t.Strengths = orEmpty(t.Strengths)
	t.Weaknesses = orEmpty(t.Weaknesses)
}
