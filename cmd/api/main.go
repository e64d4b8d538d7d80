package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jotaveeo/nocontrole-back/internal/alerts"
	"github.com/jotaveeo/nocontrole-back/internal/config"
	"github.com/jotaveeo/nocontrole-back/internal/database"
	"github.com/jotaveeo/nocontrole-back/internal/handlers"
	"github.com/jotaveeo/nocontrole-back/internal/logger"
	"github.com/jotaveeo/nocontrole-back/internal/middleware"
	"github.com/jotaveeo/nocontrole-back/internal/services"
	"github.com/jotaveeo/nocontrole-back/internal/validator"

	_ "github.com/jotaveeo/nocontrole-back/internal/docs" // Import swagger docs
)

// @title           NoControle API
// @version         1.0
// @description     NoControle is a personal finance backend for tracking transactions, spending limits, goals, debts, and investments.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Connect the alert publisher. An empty AMQP_URL disables publishing.
	var publisher alerts.Publisher
	if appConfig.AMQPURL != "" {
		client, err := alerts.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect alert publisher: %w", err)
		}
		defer client.Close()
		publisher = client
	} else {
		log.Info("AMQP_URL not set, limit alerts disabled")
		publisher = alerts.NopPublisher{}
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	cardService := services.NewCardService(db)
	limitService := services.NewLimitService(db, publisher)
	transactionService := services.NewTransactionService(db, limitService)
	reportService := services.NewReportService(db)
	goalService := services.NewGoalService(db)
	debtService := services.NewDebtService(db)
	fixedExpenseService := services.NewFixedExpenseService(db)
	wishlistService := services.NewWishlistService(db)
	investmentService := services.NewInvestmentService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	limitHandler := handlers.NewLimitHandler(limitService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	debtHandler := handlers.NewDebtHandler(debtService, auditService)
	fixedExpenseHandler := handlers.NewFixedExpenseHandler(fixedExpenseService, auditService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Card routes
	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCard)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id/status", transactionHandler.UpdateTransactionStatus)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Spending limit routes
	limits := protected.Group("/limits")
	limits.POST("", limitHandler.CreateLimit)
	limits.GET("", limitHandler.GetLimits)
	limits.POST("/sweep", limitHandler.SweepDueResets)
	limits.PUT("/category/:categoryId", limitHandler.UpsertCategoryLimit)
	limits.DELETE("/category/name/:name", limitHandler.DeleteLimitByCategoryName)
	limits.GET("/:id", limitHandler.GetLimit)
	limits.POST("/:id/reset", limitHandler.ResetLimit)
	limits.DELETE("/:id", limitHandler.DeleteLimit)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/budget", reportHandler.GetBudgetView)
	reports.GET("/cashflow", reportHandler.GetCashFlow)
	reports.GET("/categories", reportHandler.GetCategoryReport)
	reports.GET("/cards", reportHandler.GetCardReport)
	reports.GET("/evolution", reportHandler.GetMonthlyEvolution)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Debt routes
	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetDebts)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.POST("/:id/pay", debtHandler.PayDebt)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)

	// Fixed expense routes
	fixedExpenses := protected.Group("/fixed-expenses")
	fixedExpenses.POST("", fixedExpenseHandler.CreateFixedExpense)
	fixedExpenses.GET("", fixedExpenseHandler.GetFixedExpenses)
	fixedExpenses.GET("/:id", fixedExpenseHandler.GetFixedExpense)
	fixedExpenses.PUT("/:id", fixedExpenseHandler.UpdateFixedExpense)
	fixedExpenses.DELETE("/:id", fixedExpenseHandler.DeleteFixedExpense)

	// Wishlist routes
	wishlist := protected.Group("/wishlist")
	wishlist.POST("", wishlistHandler.CreateItem)
	wishlist.GET("", wishlistHandler.GetItems)
	wishlist.GET("/:id", wishlistHandler.GetItem)
	wishlist.POST("/:id/save", wishlistHandler.SaveToward)
	wishlist.POST("/:id/purchase", wishlistHandler.MarkPurchased)
	wishlist.PUT("/:id", wishlistHandler.UpdateItem)
	wishlist.DELETE("/:id", wishlistHandler.DeleteItem)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/portfolio", investmentHandler.GetPortfolio)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.PATCH("/:id/value", investmentHandler.UpdateValue)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	log.Infof("Starting NoControle backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
