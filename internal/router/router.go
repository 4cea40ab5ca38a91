package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/tcms-go-api/internal/config"
	"github.com/noah-isme/tcms-go-api/internal/handler"
	"github.com/noah-isme/tcms-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler         *handler.UserHandler
	AssignmentHandler   *handler.AssignmentHandler
	SubmissionHandler   *handler.SubmissionHandler
	AttendanceHandler   *handler.AttendanceHandler
	FeeHandler          *handler.FeeHandler
	MaterialHandler     *handler.MaterialHandler
	QuestionHandler     *handler.QuestionHandler
	PerformanceHandler  *handler.PerformanceHandler
	NotificationHandler *handler.NotificationHandler
	UploadHandler       *handler.UploadHandler
	ActivityHandler     *handler.ActivityHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Role checks
// live inside each handler's Register; the router only decides which groups
// sit behind authentication.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware))
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("/assignments", jwtMiddleware))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("", jwtMiddleware))
	}

	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(api.Group("/attendance", jwtMiddleware))
	}

	if deps.FeeHandler != nil {
		deps.FeeHandler.Register(api.Group("/fees", jwtMiddleware))
	}

	if deps.MaterialHandler != nil {
		deps.MaterialHandler.Register(api.Group("/materials", jwtMiddleware))
	}

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware))
	}

	if deps.PerformanceHandler != nil {
		deps.PerformanceHandler.Register(api.Group("/performance", jwtMiddleware))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/uploads", jwtMiddleware))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/audit-logs", jwtMiddleware))
	}
}
