package stages

import (
	"context"
	"regexp"
	"strings"

	"alfredoptarigan/talent-scout/internal/services"
)

var rolePrefix = regexp.MustCompile(`(?i)^(assistant|interviewer|question|ai):\s*`)

type InterviewTurn struct {
	runner *Runner
}

func (s *InterviewTurn) Name() Name { return InterviewTurnStage }

// Run implements Stage. The reply is plain text.
func (s *InterviewTurn) Run(ctx context.Context, in TurnInput) (TurnResult, error) {
	text, err := s.runner.generate(ctx, InterviewTurnStage, services.GenerateRequest{
		SystemPrompt: turnSystemPrompt,
		UserPrompt:   turnPrompt(in),
		Temperature:  0.5,
		MaxTokens:    300,
	})
	if err != nil {
		return TurnResult{}, err
	}
	return ParseTurn(text)
}

// ParseTurn cleans the interviewer's reply and recognizes the end sentinel.
func ParseTurn(raw string) (TurnResult, error) {
	text := CleanQuestion(raw)
	if strings.Contains(strings.ToUpper(text), EndSentinel) {
		return TurnResult{End: true}, nil
	}
	if text == "" {
		return TurnResult{}, Malformed(InterviewTurnStage, "empty interviewer reply")
	}
	return TurnResult{NextQuestion: text}, nil
}

// CleanQuestion strips a role prefix, surrounding quotes and a single
// trailing period.
func CleanQuestion(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimSpace(rolePrefix.ReplaceAllString(text, ""))
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ".")
	return strings.TrimSpace(text)
}
