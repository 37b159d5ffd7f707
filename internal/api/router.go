package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devlink/bookings-api/internal/api/handler"
	"github.com/devlink/bookings-api/internal/api/middleware"
	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// Dependencies carries everything the router needs, wired in main.
type Dependencies struct {
	AuthService    ports.AuthService
	Guard          ports.AuthGuard
	Profiles       ports.ProfileRepository
	Bookings       ports.BookingService
	Payments       ports.PaymentService
	Dispatcher     handler.WebhookDispatcher
	Mongo          *mongo.Database
	Redis          *redis.Client
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
	}))
	e.Use(echoprometheus.NewMiddleware("bookings"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	paymentHandler := handler.NewPaymentHandler(deps.Payments, deps.Dispatcher)
	profileHandler := handler.NewProfileHandler(deps.Profiles)

	anyUser := middleware.RequireRoles(deps.Guard, domain.RoleCustomer, domain.RoleAdmin)
	adminOnly := middleware.RequireRoles(deps.Guard, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Booking routes ---
	e.POST("/v1/bookings", bookingHandler.Create, anyUser)
	e.GET("/v1/bookings", bookingHandler.List, anyUser)
	e.GET("/v1/bookings/:id", bookingHandler.Get, anyUser)

	// --- Payment routes ---
	e.POST("/v1/bookings/:id/payments", paymentHandler.Initialize, anyUser)
	e.GET("/v1/payments/:reference/verify", paymentHandler.Verify, anyUser)
	// Gateway webhook: authenticated by the gateway's own delivery model,
	// never trusted without a verify round trip.
	e.POST("/v1/payments/webhook", paymentHandler.Webhook)

	// --- Admin routes ---
	e.PUT("/v1/admin/profiles/:id/role", profileHandler.UpdateRole, adminOnly)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
