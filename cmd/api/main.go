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
	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/config"
	"github.com/brightpath-labs/brightpath-api/internal/database"
	"github.com/brightpath-labs/brightpath-api/internal/handler"
	"github.com/brightpath-labs/brightpath-api/internal/middleware"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
	"github.com/brightpath-labs/brightpath-api/internal/router"
	"github.com/brightpath-labs/brightpath-api/internal/service"
	"github.com/brightpath-labs/brightpath-api/internal/worker"
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

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Question{},
		&models.Exam{},
		&models.ExamResult{},
		&models.XpEvent{},
		&models.LeaderboardAudit{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewExamResultRepository(db)
	eventRepo := repository.NewXpEventRepository(db)
	auditRepo := repository.NewLeaderboardAuditRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	pool := worker.New(cfg.WorkerPoolSize)

	examService := service.NewExamService(examRepo, validate, logger)
	bankService := service.NewQuestionBankService(questionRepo, examRepo, logger)
	scoringService := service.NewScoringService(examRepo, questionRepo, resultRepo, eventRepo, studentRepo, service.ScoringPoints{
		ExamCompleted: cfg.ExamCompletedXP,
		CorrectAnswer: cfg.CorrectAnswerXP,
	}, logger)
	leaderboardService := service.NewLeaderboardService(eventRepo, auditRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	xpService := service.NewXpService(eventRepo, pool, service.XpPoints{
		VideoWatched:    cfg.VideoWatchedXP,
		CourseCompleted: cfg.CourseCompletedXP,
	}, logger)

	examHandler := handler.NewExamHandler(examService, validate, logger)
	bankHandler := handler.NewQuestionBankHandler(bankService, logger)
	submissionHandler := handler.NewSubmissionHandler(scoringService, validate, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, validate, logger)
	xpHandler := handler.NewXpHandler(xpService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ExamHandler:         examHandler,
		QuestionBankHandler: bankHandler,
		SubmissionHandler:   submissionHandler,
		LeaderboardHandler:  leaderboardHandler,
		XpHandler:           xpHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		SubmissionLimiter:   middleware.RateLimit("submissions", 30, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Close(drainCtx); err != nil {
		log.Printf("worker pool drain failed: %v", err)
	}
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
