// Package api wires the HTTP surface: routes, middleware, and the central
// error handler.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/nagrathcare/clinic-api/docs"
	"github.com/nagrathcare/clinic-api/internal/api/handler"
	"github.com/nagrathcare/clinic-api/internal/api/middleware"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
	"github.com/nagrathcare/clinic-api/internal/infrastructure/http/handlers"
)

// Dependencies bundles everything the router needs. Services are constructed
// in main so the startup bootstrap can reuse them.
type Dependencies struct {
	Logger         zerolog.Logger
	JWTSecret      string
	AllowedOrigins []string

	Mongo *mongo.Database
	Redis *redis.Client

	Users          ports.UserRepository
	AuthService    ports.AuthService
	PatientService ports.PatientService
	AuditRepo      ports.AuditRepository
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
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler(deps.AuthService)
	patientHandler := handler.NewPatientHandler(deps.PatientService)
	auditHandler := handler.NewAuditHandler(deps.AuditRepo)

	authn := middleware.Auth(deps.JWTSecret, deps.Users)
	superAdminOnly := middleware.RequireRole(domain.RoleSuperAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth and admin management ---
	auth := e.Group("/api/auth")
	auth.POST("/createSuperAdmin", authHandler.CreateSuperAdmin)
	auth.POST("/login", authHandler.Login)
	auth.POST("/createAdmin", authHandler.CreateAdmin, authn, superAdminOnly)
	auth.GET("/admins", authHandler.ListAdmins, authn, superAdminOnly)
	auth.DELETE("/admin/:id", authHandler.DeleteAdmin, authn, superAdminOnly)

	// --- Patient records ---
	// The public view is registered before the parameterised routes so
	// "public" is never captured as an id.
	patients := e.Group("/api/patients")
	patients.GET("/public/:id", patientHandler.Public)
	patients.POST("", patientHandler.Create, authn, adminOnly)
	patients.GET("", patientHandler.List, authn, adminOnly)
	patients.GET("/search", patientHandler.Search, authn, adminOnly)
	patients.GET("/:id", patientHandler.Get, authn, adminOnly)
	patients.PUT("/:id", patientHandler.Update, authn, adminOnly)
	patients.DELETE("/:id", patientHandler.Delete, authn, adminOnly)
	patients.GET("/:id/qrcode", patientHandler.QRCode, authn, adminOnly)

	// --- Self profile ---
	profile := e.Group("/api/profile", authn, adminOnly)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)

	// --- Audit trail ---
	e.GET("/api/audit", auditHandler.List, authn, superAdminOnly)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
