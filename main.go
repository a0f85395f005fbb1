package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/bingeclub/bingeclub-engine/pkg/auth"
	"github.com/bingeclub/bingeclub-engine/pkg/config"
	"github.com/bingeclub/bingeclub-engine/pkg/database"
	"github.com/bingeclub/bingeclub-engine/pkg/handlers"
	"github.com/bingeclub/bingeclub-engine/pkg/logging"
	"github.com/bingeclub/bingeclub-engine/pkg/middleware"
	"github.com/bingeclub/bingeclub-engine/pkg/omdb"
	"github.com/bingeclub/bingeclub-engine/pkg/repositories"
	"github.com/bingeclub/bingeclub-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Strings("cors_allowed_origins", cfg.CORSAllowedOrigins))

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations",
			zap.String("error", logging.SanitizeError(err)))
	}

	verifier, err := auth.NewJWKSVerifier(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create token verifier", zap.Error(err))
	}

	authService := auth.NewAuthService(verifier, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	lookupClient := omdb.NewHTTPClient(cfg.OMDb.BaseURL, cfg.OMDb.APIKey, nil)

	movieService := services.NewMovieService(
		repositories.NewMovieRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewSearchHistoryRepository(db),
		lookupClient,
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewMoviesHandler(movieService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewDebugHandler(cfg, logger).RegisterRoutes(mux)

	handler := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})(middleware.RequestLogger(logger)(mux))

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("Starting bingeclub-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown did not complete cleanly", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

// newLogger builds the process logger: human-readable locally, JSON
// elsewhere.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runMigrations applies pending schema migrations over database/sql, which
// golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, logger)
}
