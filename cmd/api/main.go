package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/config"
	"alfredoptarigan/talent-scout/internal/handlers"
	"alfredoptarigan/talent-scout/internal/interview"
	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/pipeline"
	"alfredoptarigan/talent-scout/internal/repositories"
	"alfredoptarigan/talent-scout/internal/services"
	"alfredoptarigan/talent-scout/internal/stages"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Gemini AI
	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:       cfg.Gemini.APIKey,
		Model:        cfg.Gemini.Model,
		EmbedModel:   cfg.Gemini.EmbedModel,
		MaxRetries:   cfg.Worker.RetryMaxAttempts,
		InitialDelay: cfg.Worker.RetryInitialDelay,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("initialize gemini: %w", err)
	}
	log.Info("gemini initialized", zap.String("model", gemini.Model()))

	// Optional knowledge base
	var knowledge services.KnowledgeBase
	if cfg.Qdrant.Enabled {
		knowledge, err = services.NewQdrantKnowledgeBase(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, gemini)
		if err != nil {
			return fmt.Errorf("initialize qdrant: %w", err)
		}
		if err := knowledge.InitCollection(ctx); err != nil {
			return fmt.Errorf("initialize qdrant collection: %w", err)
		}
		log.Info("knowledge base initialized", zap.String("collection", cfg.Qdrant.Collection))
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		return err
	}

	set := stages.NewSet(stages.NewRunner(gemini, cfg.Pipeline.StageTimeout, log))
	executor := pipeline.NewExecutor(set, pipeline.Options{
		PlanTimeout: cfg.Pipeline.PlanTimeout,
		Loader:      services.NewResumeLoader(services.NewPDFParserService()),
		Knowledge:   knowledge,
		Logger:      log,
	})

	// Optional database: documents, queued evaluations and interview results.
	var (
		docRepo     repositories.DocumentRepository
		evalRepo    repositories.EvaluationRepository
		resultsRepo repositories.InterviewResultRepository
		worker      services.Worker
	)
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			return err
		}
		docRepo = repositories.NewDocumentRepository(db)
		evalRepo = repositories.NewEvaluationRepository(db)
		resultsRepo = repositories.NewInterviewResultRepository(db)

		worker = services.NewWorker(
			evalRepo,
			pipeline.NewJobRunner(executor, evalRepo, docRepo, log),
			cfg.Worker.Concurrency,
			log,
		)
		worker.Start(ctx)
		defer worker.Stop()
	} else {
		log.Warn("database disabled, async evaluations and interview history are unavailable")
	}

	store, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	sessions := interview.NewManager(store, set.Turn, interview.Options{
		MaxTurns: cfg.Interview.MaxTurns,
		Logger:   log,
	})

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize, log)
	evaluationHandler := handlers.NewEvaluationHandler(executor, evalRepo, docRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	interviewHandler := handlers.NewInterviewHandler(executor, sessions, resultsRepo, log)
	interviewResultHandler := handlers.NewInterviewResultHandler(resultsRepo)
	healthHandler := handlers.NewHealthHandler(gemini)

	app := fiber.New(fiber.Config{
		AppName: "TalentScout API",
		// Full pipeline runs take minutes.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")
	api.Get("/health", healthHandler.HandleHealth)
	api.Get("/info", healthHandler.HandleInfo)

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluationHandler.HandleEvaluate)
	api.Post("/evaluations", evaluationHandler.HandleEnqueue)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	ai := api.Group("/ai-interview")
	ai.Post("/start-session", interviewHandler.HandleStartSession)
	ai.Post("/submit-answer", interviewHandler.HandleSubmitAnswer)
	ai.Get("/evaluate/:sessionId", interviewHandler.HandleEvaluate)
	ai.Get("/report/:sessionId", interviewHandler.HandleReport)

	api.Get("/interviews", interviewResultHandler.HandleList)
	api.Get("/interviews/:candidateId", interviewResultHandler.HandleByCandidate)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "TalentScout API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/evaluate",
				"POST /api/v1/evaluations",
				"GET /api/v1/result/:id",
				"POST /api/v1/upload",
				"POST /api/v1/ai-interview/start-session",
				"POST /api/v1/ai-interview/submit-answer",
				"GET /api/v1/ai-interview/evaluate/:sessionId",
				"GET /api/v1/ai-interview/report/:sessionId",
				"GET /api/v1/interviews",
			},
		})
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
	return app.Listen(addr)
}

func newSessionStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (interview.Store, error) {
	switch cfg.Interview.Store {
	case "", "memory":
		log.Info("using in-memory session store")
		return interview.NewMemoryStore(cfg.Interview.SessionTTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("using redis session store", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Interview.SessionTTL))
		return interview.NewRedisStore(client, cfg.Interview.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Interview.Store)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
