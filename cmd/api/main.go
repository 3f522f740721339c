package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/config"
	"github.com/sreedhar1227/llm-interview-api/internal/database"
	"github.com/sreedhar1227/llm-interview-api/internal/handler"
	"github.com/sreedhar1227/llm-interview-api/internal/middleware"
	"github.com/sreedhar1227/llm-interview-api/internal/models"
	"github.com/sreedhar1227/llm-interview-api/internal/repository"
	"github.com/sreedhar1227/llm-interview-api/internal/router"
	"github.com/sreedhar1227/llm-interview-api/internal/service"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ConversationLog{}, &models.InterviewQuestion{}, &models.UserResponse{}, &models.Transcript{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	clients := llm.NewFactory(llm.Config{
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		GroqAPIKey:      cfg.GroqAPIKey,
		GroqModel:       cfg.GroqModel,
		GroqBaseURL:     cfg.GroqBaseURL,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		GeminiEndpoint:  cfg.GeminiEndpoint,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		ClaudeModel:     cfg.ClaudeModel,
		ClaudeEndpoint:  cfg.ClaudeEndpoint,
		Timeout:         cfg.LLMTimeout,
		Logger:          logger,
	})

	interviewRepo := repository.NewInterviewRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	evaluator := service.NewAnswerEvaluator(logger)
	interviewService := service.NewInterviewService(clients, interviewRepo, transcriptRepo, evaluator, validate, natsConn, logger, service.InterviewConfig{
		CallTimeout:  cfg.LLMTimeout,
		EventSubject: cfg.EventSubject,
	})
	transcriptService := service.NewTranscriptService(transcriptRepo, redisClient, cfg.TranscriptCacheTTL, logger)

	interviewHandler := handler.NewInterviewHandler(interviewService, logger)
	interviewWSHandler := handler.NewInterviewWSHandler(interviewService, logger)
	transcriptHandler := handler.NewTranscriptHandler(transcriptService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		InterviewHandler:   interviewHandler,
		InterviewWSHandler: interviewWSHandler,
		TranscriptHandler:  transcriptHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
