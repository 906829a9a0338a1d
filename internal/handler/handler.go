package handler

import (
	"database/sql"
	"net/http"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/config"
	"expense_tracker/internal/expense"
	"expense_tracker/internal/middleware"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/report"
	"expense_tracker/internal/saving"
	"expense_tracker/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, conn *amqp.Connection, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	issuer := auth.NewIssuer(cfg.Session.Secret, cfg.Session.TTL)

	// Initialize repositories
	userRepo := user.NewUserRepository()
	expenseRepo := expense.NewExpenseRepository()
	savingRepo := saving.NewSavingRepository()
	reportRepo := report.NewReportRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, db)
	expenseService := expense.NewExpenseService(expenseRepo, db, redisClient)
	savingService := saving.NewSavingService(savingRepo, db, redisClient)
	reportService := report.NewReportService(reportRepo, db, conn, cfg.Report.Queue)

	// Initialize controllers
	userController := user.NewUserController(userService, issuer)
	expenseController := expense.NewExpenseController(expenseService)
	savingController := saving.NewSavingController(savingService)
	reportController := report.NewReportController(reportService)

	// Every request outside the allow-list goes through the session gateway.
	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))
	r.Use(middleware.SessionGateway(issuer, middleware.PublicPaths))

	setupRoutes(r, userController, expenseController, savingController, reportController,
		expenseService, savingService, redisClient)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(
	r *gin.Engine,
	userCtrl *user.UserController,
	expenseCtrl *expense.ExpenseController,
	savingCtrl *saving.SavingController,
	reportCtrl *report.ReportController,
	expenseService expense.ExpenseServiceInterface,
	savingService saving.SavingServiceInterface,
	redisClient *redis.Client,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", func(c *gin.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	// Public routes - Authentication (rate limited by client IP)
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiterConfig()))
	{
		authGroup.POST("/register", userCtrl.Register)
		authGroup.POST("/login", userCtrl.Login)
		authGroup.POST("/logout", userCtrl.Logout)
	}

	// Protected routes - API v1 (identity injected by the session gateway)
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiterMiddleware(redisClient, middleware.DefaultRateLimiterConfig()))
	{
		// Expense endpoints
		api.GET("/expenses", expenseCtrl.List)
		api.POST("/expenses", expenseCtrl.Create)
		api.PUT("/expenses/:id", expenseCtrl.Update)
		api.DELETE("/expenses/:id", expenseCtrl.Delete)

		// Saving endpoints
		api.GET("/savings", savingCtrl.List)
		api.POST("/savings", savingCtrl.Create)
		api.PUT("/savings/:id", savingCtrl.Update)
		api.DELETE("/savings/:id", savingCtrl.Delete)

		// Running totals
		api.GET("/summary", SummaryHandler(expenseService, savingService, redisClient))

		// Report exports
		api.POST("/reports", reportCtrl.Create)
		api.GET("/reports", reportCtrl.List)
		api.GET("/reports/:id", reportCtrl.Get)
		api.GET("/reports/:id/download", reportCtrl.Download)
	}
}
