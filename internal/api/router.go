package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/peopleops/user-directory/docs"
	"github.com/peopleops/user-directory/internal/api/handler"
	"github.com/peopleops/user-directory/internal/api/middleware"
	"github.com/peopleops/user-directory/internal/core/domain"
	"github.com/peopleops/user-directory/internal/core/service"
	"github.com/peopleops/user-directory/internal/infrastructure/crypto"
	redisdb "github.com/peopleops/user-directory/internal/infrastructure/db/redis"
	"github.com/peopleops/user-directory/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Reads are open; mutating routes require a valid bearer token, and the
// whole-directory wipe additionally requires the admin role.
func NewRouter(rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("directory"))

	// --- Dependencies ---
	store := redisdb.NewUserRepository(rdb)
	hasher := crypto.NewBcryptHasher(0)
	userService := service.NewUserService(store, hasher, log)
	authService := service.NewAuthService(store, jwtSecret, 24*time.Hour)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(jwtSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- User directory routes ---
	v1 := e.Group("/v1")
	v1.GET("/users", userHandler.List)
	v1.GET("/users/:user_id", userHandler.Get)
	v1.POST("/users", userHandler.Create, authMiddleware)
	v1.PUT("/users/:user_id", userHandler.Update, authMiddleware)
	v1.PATCH("/users/:user_id", userHandler.Patch, authMiddleware)
	v1.DELETE("/users/:user_id", userHandler.Delete, authMiddleware)
	v1.DELETE("/users", userHandler.DeleteAll, authMiddleware, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
