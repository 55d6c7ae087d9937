package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/blogweb/blog-api/docs"
	"github.com/blogweb/blog-api/internal/api/handler"
	"github.com/blogweb/blog-api/internal/api/middleware"
	"github.com/blogweb/blog-api/internal/core/ports"
)

// maxBodySize bounds request bodies; base64 images are the largest payload.
const maxBodySize = "8M"

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Accounts ports.AccountService
	Posts    ports.PostService
	Health   map[string]handler.Pinger
	Logger   zerolog.Logger
	Swagger  bool

	// Registry receives the HTTP metrics. Nil creates a private registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimit(maxBodySize))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Registerer: registry,
	}))

	// --- Dependencies ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	postHandler := handler.NewPostHandler(deps.Posts)
	healthHandler := handler.NewHealthHandler(deps.Health)
	requireAuth := middleware.Auth(deps.Accounts)

	// --- Account routes ---
	v1 := e.Group("/v1")
	v1.POST("/accounts", accountHandler.Register)
	v1.POST("/accounts/login", accountHandler.Login)
	v1.POST("/accounts/upload-image", accountHandler.UploadImage, requireAuth)
	v1.POST("/accounts/logout", accountHandler.Logout, requireAuth)

	// --- Post routes ---
	v1.GET("/posts", postHandler.List)
	v1.GET("/posts/:id", postHandler.Get)
	v1.GET("/posts/category/:slug", postHandler.ListByCategory)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}
