package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-labs/brightpath-api/internal/config"
	"github.com/brightpath-labs/brightpath-api/internal/handler"
	"github.com/brightpath-labs/brightpath-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler         *handler.ExamHandler
	QuestionBankHandler *handler.QuestionBankHandler
	SubmissionHandler   *handler.SubmissionHandler
	LeaderboardHandler  *handler.LeaderboardHandler
	XpHandler           *handler.XpHandler
	JWTMiddleware       fiber.Handler
	SubmissionLimiter   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Exams (lifecycle, question banks, submissions)
	if deps.ExamHandler != nil {
		exams := app.Group("/api/v2/exams", jwtMiddleware)
		deps.ExamHandler.Register(exams)

		if deps.QuestionBankHandler != nil {
			deps.QuestionBankHandler.Register(exams)
		}

		if deps.SubmissionHandler != nil {
			submissionGroup := exams.Group("")
			if deps.SubmissionLimiter != nil {
				submissionGroup = exams.Group("", deps.SubmissionLimiter)
			}
			deps.SubmissionHandler.Register(submissionGroup)
		}
	}

	// Leaderboard
	if deps.LeaderboardHandler != nil {
		leaderboard := app.Group("/api/v2/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard)
	}

	// XP awards
	if deps.XpHandler != nil {
		xp := app.Group("/api/v2/xp", jwtMiddleware)
		deps.XpHandler.Register(xp)
	}
}
