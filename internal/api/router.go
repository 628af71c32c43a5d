package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kestrelhq/trackdeck/internal/api/handler"
	customMiddleware "github.com/kestrelhq/trackdeck/internal/api/middleware"
	"github.com/kestrelhq/trackdeck/internal/config"
	"github.com/kestrelhq/trackdeck/internal/repository/postgres"
	"github.com/kestrelhq/trackdeck/internal/repository/redis"
	"github.com/kestrelhq/trackdeck/internal/security"
	"github.com/kestrelhq/trackdeck/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestIDHeader)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	shareRepo := postgres.NewShareRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	linkRepo := postgres.NewLinkRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)

	// Initialize rate limiter
	loginLimiter := redis.NewLoginRateLimiter(
		redisClient,
		cfg.RateLimit.LoginAttempts,
		cfg.RateLimit.LoginWindow,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo, jwtManager)
	workspaceService := service.NewWorkspaceService(workspaceRepo, shareRepo, userRepo, projectRepo, auditRepo)
	projectService := service.NewProjectService(projectRepo, linkRepo, auditRepo, workspaceRepo, workspaceService)
	templateService := service.NewTemplateService(templateRepo)
	adminService := service.NewAdminService(userRepo, workspaceRepo, projectRepo, auditRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	projectHandler := handler.NewProjectHandler(projectService)
	templateHandler := handler.NewTemplateHandler(templateService, projectService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	loginRateLimit := customMiddleware.NewLoginRateLimitMiddleware(loginLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.With(loginRateLimit.Limit).Post("/login", authHandler.Login)
			r.Get("/sso/status", handler.SSOStatus(cfg))
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/me/password", authHandler.ChangePassword)

			// Workspace routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)
				r.Get("/linkable", workspaceHandler.ListLinkable)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", workspaceHandler.Get)
					r.Put("/", workspaceHandler.Rename)
					r.Delete("/", workspaceHandler.Delete)
					r.Delete("/leave", workspaceHandler.Leave)

					r.Route("/shares", func(r chi.Router) {
						r.Get("/", workspaceHandler.ListShares)
						r.Post("/", workspaceHandler.Share)
						r.Put("/{shareID}", workspaceHandler.UpdateShare)
						r.Delete("/{shareID}", workspaceHandler.RemoveShare)
					})
				})
			})

			// Project routes
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)

				r.Route("/{odid}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Put("/", projectHandler.Update)
					r.Delete("/", projectHandler.Delete)

					r.Get("/links", projectHandler.ListLinks)
					r.Post("/links", projectHandler.Link)
					r.Delete("/link/{workspaceID}", projectHandler.Unlink)

					r.Get("/audit", projectHandler.AuditTrail)
				})
			})

			// Template routes
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", templateHandler.List)
				r.Post("/", templateHandler.Create)
				r.Post("/from-project/{odid}", templateHandler.CreateFromProject)
				r.Put("/{templateID}", templateHandler.Update)
				r.Delete("/{templateID}", templateHandler.Delete)
			})

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(customMiddleware.RequireAdmin)

				r.Get("/users", adminHandler.ListUsers)
				r.Post("/users", adminHandler.CreateUser)
				r.Delete("/users/{userID}", adminHandler.DeleteUser)
				r.Put("/users/{userID}/password", adminHandler.ResetPassword)
				r.Put("/users/{userID}/email", adminHandler.UpdateEmail)
			})
		})
	})

	return r
}
