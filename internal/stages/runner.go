package stages

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/services"
)

// DefaultTimeout bounds a single Evaluator call when none is configured.
const DefaultTimeout = 2 * time.Minute

// Evaluator is the remote reasoning provider.
type Evaluator interface {
	Generate(ctx context.Context, req services.GenerateRequest) (string, error)
}

// Runner performs the Evaluator call shared by every stage.
type Runner struct {
	evaluator Evaluator
	timeout   time.Duration
	log       *zap.Logger
}

func NewRunner(evaluator Evaluator, timeout time.Duration, log *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		evaluator: evaluator,
		timeout:   timeout,
		log:       logger.OrNop(log),
	}
}

type defaulter interface {
	FillDefaults()
}

// generate calls the Evaluator under the per-call timeout.
func (r *Runner) generate(ctx context.Context, stage Name, req services.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req.Stage = string(stage)
	log := logger.ForStage(r.log, string(stage))
	started := time.Now()

	text, err := r.evaluator.Generate(ctx, req)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Debug("evaluator call failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", classify(stage, err)
	}

	log.Debug("evaluator call finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("prompt_len", len(req.UserPrompt)),
		zap.Int("response_len", len(text)),
		zap.String("preview", logger.TruncateForLog(text, 120)),
	)
	return text, nil
}

// generateJSON calls the Evaluator in JSON mode, lets normalize reshape the
// decoded object and decodes the result into out.
func (r *Runner) generateJSON(
	ctx context.Context,
	stage Name,
	req services.GenerateRequest,
	normalize func(map[string]any) map[string]any,
	out defaulter,
) error {
	req.JSONMode = true
	text, err := r.generate(ctx, stage, req)
	if err != nil {
		return err
	}

	obj, err := decodeObject(text)
	if err != nil {
		return Fail(stage, ErrMalformedResponse, err)
	}
	if normalize != nil {
		obj = normalize(obj)
	}
	if err := weakDecode(obj, out); err != nil {
		return Fail(stage, ErrMalformedResponse, err)
	}
	out.FillDefaults()

	return nil
}
