// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"financebot/internal/config"
	_ "financebot/internal/docs" // Import swagger docs
	"financebot/internal/events"
	"financebot/internal/handlers"
	"financebot/internal/middleware"
	"financebot/internal/services"
	"financebot/internal/store"
	"financebot/internal/validator"
)

// NewRouter builds the API on top of a shared database pool. A nil publisher
// disables ledger events.
func NewRouter(db *gorm.DB, cfg *config.Config, publisher events.Publisher) *gin.Engine {
	validator.Register()

	st := store.NewGormStore(db)
	secret := []byte(cfg.JWTSecret)

	// Initialize services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(st, publisher)
	reportService := services.NewReportService(st)
	dashboardService := services.NewDashboardService(st)
	budgetService := services.NewBudgetService(st, st)
	goalService := services.NewGoalService(st)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, secret, cfg.JWTExpirationDur)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, reportService)
	expenseHandler := handlers.NewExpenseHandler(ledgerService, auditService)
	incomeHandler := handlers.NewIncomeHandler(ledgerService, auditService)
	statsHandler := handlers.NewStatsHandler(dashboardService, reportService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/check-authorization", authHandler.CheckAuthorization)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(secret))

	protected.GET("/auth/verify", authHandler.Verify)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/users/profile", authHandler.GetProfile)
	protected.PUT("/users/profile", authHandler.UpdateProfile)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/stats", transactionHandler.GetMonthlyStats)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	stats := protected.Group("/stats")
	stats.GET("/dashboard", statsHandler.GetDashboard)
	stats.GET("/categories", statsHandler.GetCategories)
	stats.GET("/timeline", statsHandler.GetTimeline)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	goals := protected.Group("/goals")
	goals.GET("", goalHandler.GetGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	return router
}
