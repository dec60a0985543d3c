package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"crmhub/internal/config"
	"crmhub/internal/handlers"
	"crmhub/internal/middleware"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/seed"
	"crmhub/internal/services"
	"crmhub/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	taskRepo := repositories.NewTaskRepo(pool)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(userRepo, tokenService)
	customerService := services.NewCustomerService(customerRepo)
	taskService := services.NewTaskService(taskRepo, customerRepo, userRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userService)
	userHandlers := handlers.NewUserHandlers(userService)
	customerHandlers := handlers.NewCustomerHandlers(customerService)
	taskHandlers := handlers.NewTaskHandlers(taskService)
	dashboardHandlers := handlers.NewDashboardHandlers(userService, customerService, taskService)
	healthHandlers := handlers.NewHealthHandlers(pool)

	if cfg.SeedData {
		seeder := seed.NewSeeder(userRepo, customerRepo, taskRepo)
		if err := seeder.Run(ctx); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
	}

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	api := e.Group("/api")

	// Public auth endpoints
	auth := api.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware(tokenService, userRepo))

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	adminOrManager := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	// Users
	protected.GET("/users/me", authHandlers.Me)
	protected.PUT("/users/me", authHandlers.UpdateMe)
	protected.GET("/users/:email", userHandlers.GetUserByEmail, adminOnly)
	protected.POST("/users/:email/activate", userHandlers.ActivateUser, adminOnly)
	protected.POST("/users/:email/deactivate", userHandlers.DeactivateUser, adminOnly)

	// Customers
	customers := protected.Group("/customers")
	customers.POST("", customerHandlers.CreateCustomer, adminOrManager)
	customers.GET("", customerHandlers.ListCustomers)
	customers.GET("/active", customerHandlers.ListActiveCustomers)
	customers.GET("/search", customerHandlers.SearchCustomers)
	customers.GET("/by-name", customerHandlers.GetCustomersByName)
	customers.GET("/by-email/:email", customerHandlers.GetCustomerByEmail)
	customers.GET("/count/active", customerHandlers.GetActiveCustomerCount)
	customers.GET("/recent", customerHandlers.GetRecentCustomers)
	customers.GET("/top5-recent", customerHandlers.GetTop5RecentCustomers)
	customers.GET("/with-task-count", customerHandlers.GetCustomersWithTaskCount, adminOrManager)
	customers.GET("/:id", customerHandlers.GetCustomer)
	customers.PUT("/:id", customerHandlers.UpdateCustomer, adminOrManager)
	customers.DELETE("/:id", customerHandlers.DeleteCustomer, adminOnly)
	customers.POST("/:id/activate", customerHandlers.ActivateCustomer, adminOrManager)
	customers.POST("/:id/deactivate", customerHandlers.DeactivateCustomer, adminOrManager)

	// Tasks
	tasks := protected.Group("/tasks")
	tasks.POST("", taskHandlers.CreateTask)
	tasks.GET("", taskHandlers.ListTasks)
	tasks.GET("/overdue", taskHandlers.GetOverdueTasks)
	tasks.GET("/upcoming", taskHandlers.GetUpcomingTasks)
	tasks.GET("/recent", taskHandlers.GetRecentTasks)
	tasks.GET("/due-date", taskHandlers.GetTasksByDueDate)
	tasks.GET("/status/:status", taskHandlers.GetTasksByStatus)
	tasks.GET("/count/:status", taskHandlers.GetTaskCountByStatus)
	tasks.GET("/customer/:customerId", taskHandlers.GetTasksByCustomer)
	tasks.GET("/assigned/:userId", taskHandlers.GetTasksByAssignee)
	tasks.POST("/:taskId/assign/:userId", taskHandlers.AssignTask, adminOrManager)
	tasks.PUT("/:taskId/status", taskHandlers.UpdateTaskStatus)
	tasks.GET("/:id", taskHandlers.GetTask)
	tasks.PUT("/:id", taskHandlers.UpdateTask, adminOrManager)
	tasks.DELETE("/:id", taskHandlers.DeleteTask, adminOnly)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandlers.GetStats)
	dashboard.GET("/stats/user", dashboardHandlers.GetUserStats)
	dashboard.GET("/stats/admin", dashboardHandlers.GetAdminStats, adminOnly)
	dashboard.GET("/chart/task-status", dashboardHandlers.GetTaskStatusChart)
	dashboard.GET("/chart/monthly-trends", dashboardHandlers.GetMonthlyTrends)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
