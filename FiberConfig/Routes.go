package FiberConfig

import (
	"GroundCheck/Config"
	"GroundCheck/Controllers"
	"GroundCheck/Models"
	"GroundCheck/middleware"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// SetupRoutes registers every API route on the app
func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *Config.Config) {
	// Initialize handlers
	authController := Controllers.NewAuthController(db, cfg.JWTSecret)
	userController := Controllers.NewUserController(db, cfg.JWTSecret)
	divisionController := Controllers.NewDivisionController(db)
	taskController := Controllers.NewTaskController(db)
	reportController := Controllers.NewReportController(db)
	seedController := Controllers.NewSeedController(db, cfg.JWTSecret)

	// API group
	api := app.Group("/api")

	// Bootstrap (idempotent, no session required)
	api.Post("/seed", seedController.Seed)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/logout", authController.Logout)
	auth.Get("/me", middleware.Verify(""), authController.Me)

	// Hierarchy routes - reads for any session, writes admin only
	api.Get("/divisions", middleware.Verify(""), divisionController.GetDivisions)
	api.Post("/divisions", middleware.Verify(Models.RoleAdmin), divisionController.CreateDivision)
	api.Get("/supervision-units", middleware.Verify(""), divisionController.GetSupervisionUnits)
	api.Post("/supervision-units", middleware.Verify(Models.RoleAdmin), divisionController.CreateSupervisionUnit)

	// Task routes
	tasks := api.Group("/tasks", middleware.Verify(""))
	tasks.Get("/", taskController.GetTasks)
	// Export before the ID route to avoid conflicts
	tasks.Get("/export", middleware.Verify(Models.RoleAdmin), taskController.ExportTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Post("/", taskController.CreateTask)
	tasks.Delete("/:id", middleware.Verify(Models.RoleAdmin), taskController.DeleteTask)

	// Signing and report payload
	api.Post("/report", middleware.Verify(""), reportController.Sign)

	// User management (admin only)
	users := api.Group("/users", middleware.Verify(Models.RoleAdmin))
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.CreateUser)
	users.Put("/", userController.UpdateUser)
	users.Delete("/", userController.DeleteUser)
}

// NewApp builds the Fiber app with the full middleware stack and routes
func NewApp(db *gorm.DB, cfg *Config.Config) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:8000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	prometheus := fiberprometheus.New("groundcheck")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	SetupRoutes(app, db, cfg)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Resource not found",
		})
	})

	return app
}
