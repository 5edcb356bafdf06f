// Package api wires the HTTP surface of the service: routes, middleware,
// validation and the error envelope.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/refi-rr/crypto-dss/docs"
	"github.com/refi-rr/crypto-dss/internal/api/handler"
	"github.com/refi-rr/crypto-dss/internal/api/middleware"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
	"github.com/refi-rr/crypto-dss/internal/core/service"
	mongodb "github.com/refi-rr/crypto-dss/internal/infrastructure/db/mongo"
	redisdb "github.com/refi-rr/crypto-dss/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, market ports.MarketData, recorder ports.AnalysisRecorder, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("cryptodss"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	analysisRepo := mongodb.NewAnalysisRepository(db)
	backtestRepo := mongodb.NewBacktestRepository(db)
	resetRepo := redisdb.NewResetTokenRepository(rdb)

	authService := service.NewAuthService(userRepo, resetRepo, jwtSecret, 0)
	userService := service.NewUserService(userRepo)
	tradingService := service.NewTradingService(market, analysisRepo, recorder)
	backtestService := service.NewBacktestService(market, backtestRepo, analysisRepo)
	analyticsService := service.NewAnalyticsService(userRepo, analysisRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userService)
	tradingHandler := handler.NewTradingHandler(tradingService, backtestService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(jwtSecret)
	adminOnly := middleware.RBAC("admin")
	activeSubscription := middleware.Subscription(userRepo)

	api := e.Group("/api")

	// --- Auth routes (public) ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- User routes ---
	users := api.Group("/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.GET("", userHandler.List, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Trading routes ---
	trading := api.Group("/trading")
	trading.GET("/pairs", tradingHandler.Pairs)
	trading.POST("/analyze", tradingHandler.Analyze, authRequired, activeSubscription)
	trading.POST("/backtest", tradingHandler.Backtest, authRequired, activeSubscription)
	trading.GET("/backtest-history", tradingHandler.BacktestHistory, authRequired)
	trading.GET("/win-rate", tradingHandler.WinRate, authRequired)
	trading.POST("/signals/:id/outcome", tradingHandler.ReportOutcome, authRequired)

	// --- Analytics routes ---
	analytics := api.Group("/analytics", authRequired)
	analytics.GET("/dashboard", analyticsHandler.Dashboard, adminOnly)
	analytics.GET("/history", analyticsHandler.History)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	return e
}
