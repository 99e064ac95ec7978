package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"loyalty-platform/internal/config"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/handler"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/repository"
	"loyalty-platform/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (dashboard caching disabled)", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (logo upload will not work)", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, bus, cfg)
	handlers := handler.NewHandlers(services)

	invalidationCtx, cancelInvalidation := context.WithCancel(context.Background())
	defer cancelInvalidation()
	go services.Dashboard.StartInvalidation(invalidationCtx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService service.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/auth/me", h.Auth.Me)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Delete("/", h.Notification.ClearAll)

	approvals := protected.Group("/approvals")
	approvals.Get("/pending", h.Approval.ListPending)
	approvals.Post("/:requestId/approve", h.Approval.Approve)
	approvals.Post("/:requestId/reject", h.Approval.Reject)
	approvals.Post("/enrollment", middleware.RequireRole("business"), h.Approval.RequestEnrollment)
	approvals.Post("/points-deduction", middleware.RequireRole("business"), h.Approval.RequestPointsDeduction)

	programs := protected.Group("/programs")
	programs.Post("/", middleware.RequireRole("business"), h.Program.Create)
	programs.Get("/", middleware.RequireRole("business"), h.Program.List)
	programs.Get("/:id", h.Program.GetByID)
	programs.Patch("/:id", middleware.RequireRole("business"), h.Program.Update)

	business := protected.Group("/business", middleware.RequireRole("business"))
	business.Get("/", h.Program.GetBusiness)
	business.Patch("/", h.Program.UpdateBusiness)

	points := protected.Group("/points")
	points.Post("/award", middleware.RequireRole("business"), h.Points.Award)
	points.Get("/history", h.Points.History)
	points.Get("/history/:cardId", h.Points.CardHistory)

	promotions := protected.Group("/promotions")
	promotions.Post("/", middleware.RequireRole("business"), h.Promotion.Create)
	promotions.Get("/", h.Promotion.List)

	cards := protected.Group("/cards")
	cards.Get("/", h.Customer.ListCards)
	cards.Get("/:id", h.Customer.GetCard)

	protected.Get("/relationships", h.Customer.ListRelationships)

	protected.Get("/dashboard/stats", middleware.RequireRole("business"), h.Dashboard.GetStats)
	protected.Get("/audit/recent", h.Audit.GetRecentActivities)

	media := protected.Group("/media", middleware.RequireRole("business"))
	media.Post("/logo", h.Media.UploadLogo)
	media.Delete("/logo", h.Media.DeleteLogo)
}
