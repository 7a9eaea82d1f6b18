// @title        Clinic Management API
// @version      1.0
// @description  Authentication, admin management and patient records with attachments and QR codes.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/api"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
	"github.com/nagrathcare/clinic-api/internal/core/service"
	"github.com/nagrathcare/clinic-api/internal/infrastructure/config"
	mongodb "github.com/nagrathcare/clinic-api/internal/infrastructure/db/mongo"
	redisdb "github.com/nagrathcare/clinic-api/internal/infrastructure/db/redis"
	"github.com/nagrathcare/clinic-api/internal/infrastructure/qr"
	"github.com/nagrathcare/clinic-api/internal/infrastructure/queue"
	"github.com/nagrathcare/clinic-api/internal/infrastructure/storage"
	"github.com/nagrathcare/clinic-api/pkg/logger"
)

const (
	tokenTTL        = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not configured yet; bootstrap with defaults just to die loudly.
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Data stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":    userRepo.EnsureIndexes,
		"patients": patientRepo.EnsureIndexes,
		"audit":    auditRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	// --- Outbound collaborators ---
	uploader, err := storage.NewCloudinaryUploader(storage.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary")
	}

	qrGen := qr.NewGenerator()
	qrCache := redisdb.NewQRCache(rdb, logger.With("qrcache"))

	// --- Audit pipeline ---
	auditService := service.NewAuditService(auditRepo, logger.With("audit"))
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, logger.With("dispatcher"))
	dispatcher.Start(ctx)

	// --- Core services ---
	authService := service.NewAuthService(userRepo, dispatcher, cfg.JWTSecret, tokenTTL, logger.With("auth"))
	patientService := service.NewPatientService(
		patientRepo, uploader, qrGen, qrCache, dispatcher, cfg.PublicBaseURL, logger.With("patients"),
	)

	seedSuperAdmin(ctx, cfg, authService, log)

	e := api.NewRouter(api.Dependencies{
		Logger:         log,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Mongo:          db,
		Redis:          rdb,
		Users:          userRepo,
		AuthService:    authService,
		PatientService: patientService,
		AuditRepo:      auditRepo,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// seedSuperAdmin performs the same idempotent bootstrap as the public
// createSuperAdmin endpoint when credentials are configured. An existing
// super-admin is not an error.
func seedSuperAdmin(ctx context.Context, cfg *config.Config, auth ports.AuthService, log zerolog.Logger) {
	if cfg.Bootstrap.Email == "" || cfg.Bootstrap.Password == "" {
		return
	}

	_, err := auth.BootstrapSuperAdmin(ctx, ports.Credentials{
		Name:     cfg.Bootstrap.Name,
		Email:    cfg.Bootstrap.Email,
		Password: cfg.Bootstrap.Password,
	})
	switch {
	case err == nil:
		log.Info().Str("email", cfg.Bootstrap.Email).Msg("super admin created")
	case errors.Is(err, domain.ErrSuperAdminExists):
		log.Debug().Msg("super admin already present")
	default:
		log.Fatal().Err(err).Msg("super admin bootstrap")
	}
}
