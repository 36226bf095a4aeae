package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gripinvest/internal/config"
	"gripinvest/internal/database"
	"gripinvest/internal/handlers"
	"gripinvest/internal/logger"
	"gripinvest/internal/middleware"
	"gripinvest/internal/services"
	"gripinvest/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gripinvest/internal/docs" // Import swagger docs
)

// @title           Grip Invest API
// @version         1.0
// @description     Grip Invest is a demo investment platform: browse a product catalog, invest, track a portfolio, and review a per-user audit trail of every API call.

// @host      localhost:4000
// @BasePath  /

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

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	investmentService := services.NewInvestmentService(db)
	txlogService := services.NewTransactionLogService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, txlogService)
	productHandler := handlers.NewProductHandler(productService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	logHandler := handlers.NewLogHandler(txlogService)

	router := buildRouter(dbManager, authHandler, productHandler, investmentHandler, logHandler, txlogService)

	log.Infof("Starting Grip Invest backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// buildRouter assembles the middleware chain and route table.
func buildRouter(
	dbManager *database.Manager,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	investmentHandler *handlers.InvestmentHandler,
	logHandler *handlers.LogHandler,
	recorder middleware.TransactionRecorder,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// One audit row per completed request, except log reads.
	router.Use(middleware.TransactionLogger(recorder))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbManager.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset", authHandler.PasswordReset)

	// Protected auth routes
	authProtected := auth.Group("/")
	authProtected.Use(middleware.AuthMiddleware())
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/me", authHandler.GetMe)
	authProtected.PUT("/me", authHandler.UpdateMe)
	authProtected.POST("/change-password", authHandler.ChangePassword)
	authProtected.POST("/2fa/setup", authHandler.TwoFactorSetup)
	authProtected.POST("/2fa/verify", authHandler.TwoFactorVerify)
	authProtected.POST("/2fa/disable", authHandler.TwoFactorDisable)
	authProtected.GET("/2fa/status", authHandler.TwoFactorStatus)
	authProtected.GET("/login-history", authHandler.LoginHistory)
	authProtected.GET("/preferences", authHandler.GetPreferences)
	authProtected.POST("/preferences", authHandler.SavePreferences)

	// Product routes. Catalog reads are public; writes and the
	// personalized recommendations require auth.
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.GetByID)
	products.GET("/recommendations", middleware.AuthMiddleware(), productHandler.Recommendations)
	products.POST("", middleware.AuthMiddleware(), productHandler.Create)
	products.PUT("/:id", middleware.AuthMiddleware(), productHandler.Update)
	products.DELETE("/:id", middleware.AuthMiddleware(), productHandler.Delete)

	// Investment routes
	investments := api.Group("/investments")
	investments.Use(middleware.AuthMiddleware())
	investments.POST("", investmentHandler.Invest)
	investments.GET("/portfolio", investmentHandler.Portfolio)

	// Audit log routes
	logs := api.Group("/logs")
	logs.Use(middleware.AuthMiddleware())
	logs.GET("/user/me", logHandler.ListOwnLogs)
	logs.GET("/user/:userId", logHandler.ListUserLogs)
	logs.GET("/summary/:userId", logHandler.Summary)

	return router
}
