package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type EvaluateRequest struct {
	Resume           string `json:"resume"`
	DocumentID       string `json:"documentId"`
	JobDescription   string `json:"jobDescription"`
	ConductInterview bool   `json:"conductInterview"`
}

type EvaluateResponse struct {
	Success bool              `json:"success"`
	Report  *EvaluationReport `json:"report"`
}

type EvaluationJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	FailedStage  *string           `json:"failedStage,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	Report       *EvaluationReport `json:"report,omitempty"`
}

type StartSessionRequest struct {
	CandidateID      string            `json:"candidateId"`
	JobID            string            `json:"jobId"`
	JobDescription   string            `json:"jobDescription"`
	ResumeText       string            `json:"resumeText"`
	CandidateProfile *CandidateProfile `json:"candidateProfile"`
	ExperienceYears  float64           `json:"experienceYears"`
	PrimarySkills    []string          `json:"primarySkills"`
}

type SessionQuestion struct {
	ID               string `json:"id"`
	Question         string `json:"question"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	ExpectedDuration int    `json:"expectedDuration"`
}

type StartSessionResponse struct {
	SessionID         string            `json:"sessionId"`
	CandidateID       string            `json:"candidateId"`
	JobID             string            `json:"jobId"`
	Questions         []SessionQuestion `json:"questions"`
	TotalQuestions    int               `json:"totalQuestions"`
	EstimatedDuration int               `json:"estimatedDuration"`
	InterviewType     string            `json:"interviewType"`
	CurrentQuestion   string            `json:"currentQuestion"`
	Degraded          bool              `json:"degraded"`
}

type SubmitAnswerRequest struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type SubmitAnswerResponse struct {
	Success      bool    `json:"success"`
	NextQuestion *string `json:"nextQuestion"`
	IsComplete   bool    `json:"isComplete"`
}

type InterviewEvaluationResponse struct {
	SessionID string `json:"sessionId"`
	*TechnicalEvaluation
	Recommendation string `json:"recommendation"`
}
