package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/config"
	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
)

const app = "scout"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "scout runs TalentScout evaluations and manages the rubric knowledge base",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "report format: json or yaml")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	viper.SetEnvPrefix(app)
	viper.AutomaticEnv()

	rootCmd.AddCommand(evaluateCmd, ingestCmd, interviewCmd)
}

// env holds what every subcommand needs.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	gemini services.GeminiService
}

func setup(ctx context.Context) (*env, error) {
	cfg := config.Load()

	log, err := logger.New(viper.GetBool("json") || cfg.Log.JSON, viper.GetBool("debug") || cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:       cfg.Gemini.APIKey,
		Model:        cfg.Gemini.Model,
		EmbedModel:   cfg.Gemini.EmbedModel,
		MaxRetries:   cfg.Worker.RetryMaxAttempts,
		InitialDelay: cfg.Worker.RetryInitialDelay,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize gemini: %w", err)
	}

	return &env{cfg: cfg, log: log, gemini: gemini}, nil
}

func (e *env) executor(ctx context.Context, withRubrics bool) (*pipeline.Executor, error) {
	opts := pipeline.Options{
		PlanTimeout: e.cfg.Pipeline.PlanTimeout,
		Loader:      services.NewResumeLoader(services.NewPDFParserService()),
		Logger:      e.log,
	}
	if withRubrics {
		kb, err := e.knowledgeBase(ctx)
		if err != nil {
			return nil, err
		}
		opts.Knowledge = kb
	}
	return pipeline.NewExecutor(e.stageSet(), opts), nil
}

func (e *env) stageSet() stages.Set {
	return stages.NewSet(stages.NewRunner(e.gemini, e.cfg.Pipeline.StageTimeout, e.log))
}

func (e *env) knowledgeBase(ctx context.Context) (services.KnowledgeBase, error) {
	kb, err := services.NewQdrantKnowledgeBase(e.cfg.Qdrant.URL, e.cfg.Qdrant.APIKey, e.cfg.Qdrant.Collection, e.gemini)
	if err != nil {
		return nil, err
	}
	if err := kb.InitCollection(ctx); err != nil {
		return nil, err
	}
	return kb, nil
}
