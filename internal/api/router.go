package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hexcorp/hive-ai/internal/api/handler"
	"github.com/hexcorp/hive-ai/internal/api/middleware"
	"github.com/hexcorp/hive-ai/internal/core/ports"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Dispatcher handler.MessageDispatcher
	Orders     ports.OrderService
	JWTSecret  string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hive"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Gateway ingestion (connector tokens only) ---
	messageHandler := handler.NewMessageHandler(d.Dispatcher)
	orderHandler := handler.NewOrderHandler(d.Orders)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret), middleware.RBAC("gateway"))
	v1.POST("/gateway/messages", messageHandler.Receive)
	v1.POST("/commands/order", orderHandler.Report)

	return e
}
