package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventgallery/config"
	"eventgallery/internal/adapters/auth"
	"eventgallery/internal/adapters/email"
	"eventgallery/internal/adapters/storage"
	delivery "eventgallery/internal/delivery/http"
	"eventgallery/internal/delivery/http/controllers"
	"eventgallery/internal/delivery/http/middleware"
	"eventgallery/internal/metrics"
	"eventgallery/internal/repository/postgres"
	"eventgallery/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title Event Gallery API
// @version 1.0
// @description Event management backend: events, photo galleries, image uploads, and admin authentication.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	logger.Info("starting event gallery server", "env", cfg.Environment, "port", cfg.Port)

	if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
		logger.Error("database migration failed", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}
	cancel()

	files, err := storage.NewDiskStore(filepath.Join(cfg.StaticDir, "images"), "/static/images")
	if err != nil {
		logger.Error("failed to prepare static root", "err", err)
		os.Exit(1)
	}

	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewJWTCodec(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccess,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to build mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	eventRepo := postgres.NewEventRepository(db)
	photoRepo := postgres.NewPhotoRepository(db)
	userRepo := postgres.NewUserRepository(db)

	eventService := services.NewEventService(eventRepo, files, cfg.BaseURL, logger, serviceTimeout)
	photoService := services.NewPhotoService(photoRepo, eventRepo, files, logger, serviceTimeout)
	userService := services.NewUserService(userRepo, hasher, tokens, mailer, renderer, cfg.BaseURL+"/admin/login", logger, serviceTimeout)

	bootCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	if err := services.EnsureAdmin(bootCtx, userRepo, userService, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		cancel()
		logger.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}
	cancel()

	eventController := controllers.NewEventController(logger, eventService)
	photoController := controllers.NewPhotoController(logger, photoService)
	userController := controllers.NewUserController(logger, userService)

	mux := delivery.NewRouter(eventController, photoController, userController, tokens, logger, cfg.StaticDir)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.Logging(logger, metrics.Instrument(mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			os.Exit(1)
		}
	}()
	logger.Info("listening", "addr", server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
