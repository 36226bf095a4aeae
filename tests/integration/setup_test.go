package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gripinvest/internal/handlers"
	"gripinvest/internal/logger"
	"gripinvest/internal/middleware"
	"gripinvest/internal/models"
	"gripinvest/internal/services"
	"gripinvest/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.InvestmentProduct{},
		&models.Investment{},
		&models.TransactionLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	investmentService := services.NewInvestmentService(db)
	txlogService := services.NewTransactionLogService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, txlogService)
	productHandler := handlers.NewProductHandler(productService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	logHandler := handlers.NewLogHandler(txlogService)

	// Router, mirroring the production middleware chain minus request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.TransactionLogger(txlogService))

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password-reset", authHandler.PasswordReset)

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

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.GetByID)
	products.GET("/recommendations", middleware.AuthMiddleware(), productHandler.Recommendations)
	products.POST("", middleware.AuthMiddleware(), productHandler.Create)
	products.PUT("/:id", middleware.AuthMiddleware(), productHandler.Update)
	products.DELETE("/:id", middleware.AuthMiddleware(), productHandler.Delete)

	investments := api.Group("/investments")
	investments.Use(middleware.AuthMiddleware())
	investments.POST("", investmentHandler.Invest)
	investments.GET("/portfolio", investmentHandler.Portfolio)

	logs := api.Group("/logs")
	logs.Use(middleware.AuthMiddleware())
	logs.GET("/user/me", logHandler.ListOwnLogs)
	logs.GET("/user/:userId", logHandler.ListUserLogs)
	logs.GET("/summary/:userId", logHandler.Summary)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// signupUser registers a new user and returns the session token and user ID.
func (app *testApp) signupUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"firstName":"Test","lastName":"User"}`, email, password)
	rec := app.request("POST", "/api/auth/signup", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createProduct inserts a product through the API and returns its ID.
func (app *testApp) createProduct(t *testing.T, token string, yield float64, risk string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test Fund","investmentType":"mf","tenureMonths":12,"annualYield":%v,"riskLevel":%q}`, yield, risk)
	rec := app.request("POST", "/api/products", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

// waitForLogs polls until the user has at least n audit rows. The audit
// write is asynchronous, so tests that assert on it must wait.
func (app *testApp) waitForLogs(t *testing.T, userID string, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var count int64
		if err := app.DB.Model(&models.TransactionLog{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit rows for user %s", n, userID)
}
