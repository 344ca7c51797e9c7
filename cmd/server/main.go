// Package main runs the activity registration and check-in HTTP server.
//
// @title Activity Check-in API
// @version 1.0
// @description Visitor registration with QR tokens and an operator check-in desk.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activitycheckin/config"
	_ "activitycheckin/docs"
	"activitycheckin/internal/adapters/auth"
	"activitycheckin/internal/adapters/feed"
	"activitycheckin/internal/adapters/line"
	"activitycheckin/internal/adapters/message"
	"activitycheckin/internal/adapters/qrcode"
	"activitycheckin/internal/checkin"
	deliveryhttp "activitycheckin/internal/delivery/http"
	"activitycheckin/internal/delivery/http/controllers"
	"activitycheckin/internal/delivery/http/middleware"
	"activitycheckin/internal/domain"
	"activitycheckin/internal/repository/postgres"
	"activitycheckin/internal/services"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	var changes domain.RegistrationFeed
	if cfg.RedisURL != "" {
		rdb, err := feed.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		changes = feed.NewRedis(rdb, logger)
		logger.Info("registration feed", "backend", "redis")
	} else {
		changes = feed.NewMemory()
		logger.Info("registration feed", "backend", "memory")
	}

	courseRepo := postgres.NewCourseRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	registrationRepo := feed.WithPublishing(postgres.NewRegistrationRepository(db), changes, logger)
	logRepo := postgres.NewCheckInLogRepository(db)
	profileRepo := postgres.NewVisitorProfileRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	httpClient := line.NewHTTPClient()
	var identities domain.IdentityProvider
	if cfg.IdentityMode == config.IdentityModeMock {
		identities = line.NewMockProvider()
		logger.Warn("mock identity provider enabled; every visitor is the test user", "visitor_id", line.MockUserID)
	} else {
		identities = line.NewProfileProvider(httpClient, cfg.LINEAPIBaseURL)
	}
	if cfg.LINEChannelAccessToken == "" {
		logger.Warn("LINE_CHANNEL_ACCESS_TOKEN is not set; push notifications are disabled")
	}
	renderer, err := message.NewTemplateRenderer()
	if err != nil {
		return err
	}
	notifier := services.NewNotificationService(line.NewPusher(httpClient, cfg.LINEAPIBaseURL, cfg.LINEChannelAccessToken), renderer)

	registrationSvc := services.NewRegistrationService(courseRepo, activityRepo, registrationRepo, changes, notifier, domain.CapacityPolicy(cfg.CapacityPolicy), logger)
	profileSvc := services.NewProfileService(profileRepo)
	rosterSvc := services.NewRosterService(courseRepo, activityRepo, registrationRepo, logger)
	checkInSvc := services.NewCheckInService(registrationRepo, activityRepo, logRepo, notifier, logger)
	authSvc := services.NewOperatorAuthService(operatorRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		op, err := authSvc.EnsureOperator(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminDisplayName)
		if err != nil {
			return err
		}
		logger.Info("operator ready", "operator_id", op.ID, "username", op.Username)
	}

	desks := checkin.NewDesks(checkInSvc, checkin.Config{
		ErrorDisplay: cfg.CheckInErrorDisplay,
		DoneDisplay:  cfg.CheckInDoneDisplay,
	}, logger)

	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:          controllers.NewAuthController(logger, authSvc),
		Catalog:       controllers.NewCatalogController(logger, registrationSvc),
		Profile:       controllers.NewProfileController(logger, profileSvc),
		Registrations: controllers.NewRegistrationController(logger, registrationSvc, qrcode.NewEncoder(qrcode.DefaultSize), cfg.CORSAllowedOrigins),
		Admin:         controllers.NewAdminController(logger, rosterSvc, registrationSvc),
		CheckIn:       controllers.NewCheckInController(logger, desks),
		Notifications: controllers.NewNotificationController(logger, notifier),
		Health:        controllers.NewHealthController(logger, db),
	}, deliveryhttp.Auth{
		Verifier:   auth.NewJWTVerifier(cfg.JWTSecret),
		Identities: identities,
		Profiles:   profileRepo,
	}, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
	return nil
}
