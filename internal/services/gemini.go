package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/talent-scout/internal/logger"
)

// GenerateRequest is one call to the remote reasoning model.
type GenerateRequest struct {
	// Stage labels the call for logging and test doubles.
	Stage        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int32
	JSONMode     bool
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini api returned empty response")

type GeminiService interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

type GeminiOptions struct {
	APIKey       string
	Model        string
	EmbedModel   string
	MaxRetries   int
	InitialDelay time.Duration
	Logger       *zap.Logger
}

type geminiService struct {
	client       *genai.Client
	modelName    string
	embedModel   string
	maxRetries   int
	initialDelay time.Duration
	log          *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions) (GeminiService, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	embedModel := strings.TrimSpace(opts.EmbedModel)
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}
	retries := opts.MaxRetries
	if retries < 1 {
		retries = 1
	}

	return &geminiService{
		client:       client,
		modelName:    model,
		embedModel:   embedModel,
		maxRetries:   retries,
		initialDelay: opts.InitialDelay,
		log:          logger.OrNop(opts.Logger).With(zap.String("ai_model", model)),
	}, nil
}

// maxEmbedBytes keeps embedding input under the model's ~10000 token limit.
const maxEmbedBytes = 40000

// truncateForEmbedding cuts text to at most limit bytes without splitting a
// UTF-8 sequence.
func truncateForEmbedding(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateForEmbedding(text, maxEmbedBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Generate implements GeminiService. Transient failures are retried with a
// doubling delay until the attempts run out or ctx is done.
func (g *geminiService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var lastErr error
	delay := g.initialDelay

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		text, err := g.generateOnce(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		if attempt == g.maxRetries {
			break
		}

		g.log.Warn("gemini attempt failed, retrying",
			zap.String(logger.FieldStage, req.Stage),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if delay > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *geminiService) generateOnce(ctx context.Context, req GenerateRequest) (string, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.UserPrompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ErrEmptyResponse
	}

	return output, nil
}

// HealthCheck implements GeminiService.
func (g *geminiService) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.modelName, nil); err != nil {
		return fmt.Errorf("gemini model %s unavailable: %w", g.modelName, err)
	}
	return nil
}

func (g *geminiService) Model() string {
	return g.modelName
}
