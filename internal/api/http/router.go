package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusops/issue-service/internal/api/http/handlers"
	"github.com/campusops/issue-service/internal/auth"
	"github.com/campusops/issue-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Users          *handlers.UsersHandler
	Issues         *handlers.IssuesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleStudent, domain.RoleStaff, domain.RoleAdmin))
	issues.Post("/", cfg.Issues.CreateIssue)
	issues.Get("/", cfg.Issues.ListIssues)

	// Literal segments must register before the :id wildcard.
	issues.Get("/my-issues", cfg.Issues.MyIssues)
	issues.Get("/stats", cfg.Issues.Stats)

	issues.Get("/:id", cfg.Issues.GetIssue)
	issues.Put("/:id", cfg.Issues.UpdateIssue)
	issues.Post("/:id/comments", cfg.Issues.AddComment)
}
