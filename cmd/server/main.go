package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"message_wall/internal/api"
	"message_wall/internal/api/middleware"
	"message_wall/internal/app/service"
	"message_wall/internal/common/security"
	"message_wall/internal/domain/repository"
	"message_wall/internal/platform/config"
	"message_wall/internal/platform/database"
	"message_wall/internal/platform/logger"
	"message_wall/internal/platform/storage"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "message-wall",
		Short:         "Message wall API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations, seed the admin account and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context())
			},
		},
	)
	return root
}

// bootstrap loads configuration, builds the logger and opens the migrated database.
func bootstrap(ctx context.Context) (*config.Config, *logrus.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("Configuration invalid")
		return nil, nil, nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Configuration loaded.")

	db, dialect, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Error("Database connection failed")
		return nil, nil, nil, err
	}
	log.WithField("dialect", dialect).Info("Database connected.")

	if err := database.Migrate(ctx, db, dialect, log); err != nil {
		db.Close()
		log.WithError(err).Error("Migrations failed")
		return nil, nil, nil, err
	}
	log.Info("Migrations applied.")
	return cfg, log, db, nil
}

func runMigrate(ctx context.Context) error {
	_, _, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

func runServe(ctx context.Context) error {
	// 1. Configuration, logger, database
	cfg, log, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Security
	tokens, err := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)
	if err != nil {
		log.WithError(err).Error("Token service unavailable")
		return err
	}
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	// 3. Storage
	store, err := storage.New(cfg)
	if err != nil {
		log.WithError(err).Error("Storage backend unavailable")
		return err
	}
	log.WithField("backend", cfg.StorageBackend).Info("Storage ready.")

	// 4. Repositories
	userRepo := repository.NewSQLUserRepository(db)
	messageRepo := repository.NewSQLMessageRepository(db)
	likeRepo := repository.NewSQLLikeRepository()
	commentRepo := repository.NewSQLCommentRepository(db)
	statsRepo := repository.NewSQLStatsRepository(db)

	// 5. Services
	authService := service.NewAuthService(userRepo, hasher, tokens, log)
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, likeRepo, db, log)
	commentService := service.NewCommentService(commentRepo, messageRepo)
	adminService := service.NewAdminService(userRepo, messageRepo, likeRepo, commentRepo, statsRepo, db, log)
	uploadService := service.NewUploadService(store, cfg.MaxUploadBytes)

	// 6. Default admin
	if _, err := authService.EnsureDefaultAdmin(ctx, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword); err != nil {
		log.WithError(err).Error("Seeding default admin failed")
		return err
	}

	// 7. Router & HTTP Server
	guard := middleware.NewGuard(tokens, userRepo, log)
	router := api.NewRouter(cfg, log, guard,
		authService, userService, messageService, commentService, adminService, uploadService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("Server failed")
			return err
		}
	case <-stop:
	}

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
		return err
	}
	log.Info("Server stopped gracefully.")
	return nil
}
