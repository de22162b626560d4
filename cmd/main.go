// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"go_lms_certificate/internal/config"
	"go_lms_certificate/internal/handlers"
	"go_lms_certificate/internal/repository"
	"go_lms_certificate/internal/service"
)

func main() {
	// temporary logger until the config is read
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	if err := config.LoadConfig(configDir()); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(tempLogger)
	slog.SetDefault(logger)
	log.Println("Log Config Loaded...")

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if config.Cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			slog.Error("Error migrating database schema", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Database schema migrated")
	}

	// Dependency Injection
	courseRepo := repository.NewGormCourseRepository()
	enrollRepo := repository.NewGormEnrollmentRepository()
	progressRepo := repository.NewGormProgressRepository()
	attemptRepo := repository.NewGormQuizAttemptRepository()
	certRepo := repository.NewGormCertificateRepository()

	evaluator := service.NewCompletionEvaluator(db, courseRepo, progressRepo, attemptRepo)
	certificateService := service.NewCertificateService(
		db,
		enrollRepo,
		certRepo,
		evaluator,
		service.NewIdentifierGenerator(),
		service.NewMailer(&config.Cfg),
		service.NewCertificateRenderer(config.Cfg.Certificate.IssuerName),
		&config.Cfg,
	)
	enrollmentService := service.NewEnrollmentService(db, courseRepo, enrollRepo)
	progressService := service.NewProgressService(db, courseRepo, enrollRepo, progressRepo)
	quizService := service.NewQuizService(db, courseRepo, enrollRepo, attemptRepo)

	router := handlers.NewRouter(&config.Cfg, logger, db, handlers.Handlers{
		Certificate: handlers.NewCertificateHandler(certificateService, logger),
		Enrollment:  handlers.NewEnrollmentHandler(enrollmentService, logger),
		Progress:    handlers.NewProgressHandler(progressService, logger),
		Quiz:        handlers.NewQuizHandler(quizService, logger),
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // certificate PNGs are rendered per request
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// configDir supports running from the repository root or from cmd/.
func configDir() string {
	if _, err := os.Stat("configs/config.yaml"); err == nil {
		return "configs"
	}
	return "../configs"
}

// newLogger builds the application logger: tint for APP_ENV=dev, JSON otherwise.
func newLogger(tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
