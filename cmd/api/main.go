package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/hirely-app/hirely-api/docs" // Swagger docs
	"github.com/hirely-app/hirely-api/internal/auth"
	"github.com/hirely-app/hirely-api/internal/config"
	"github.com/hirely-app/hirely-api/internal/database"
	"github.com/hirely-app/hirely-api/internal/email"
	httpServer "github.com/hirely-app/hirely-api/internal/http"
	"github.com/hirely-app/hirely-api/internal/logging"
	"github.com/hirely-app/hirely-api/internal/matching"
	"github.com/hirely-app/hirely-api/internal/ratelimit"
	"github.com/hirely-app/hirely-api/internal/skill"
	"github.com/hirely-app/hirely-api/internal/storage"
	"github.com/hirely-app/hirely-api/internal/user"
	"github.com/hirely-app/hirely-api/internal/validator"
)

// @title           Hirely API
// @version         1.0
// @description     Job matching backend: accounts, password reset, profiles, skills and AI job recommendations.

// @contact.name   API Support
// @contact.email  support@hirely.app

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	rootCmd := &cobra.Command{
		Use:          "hirely-api",
		Short:        "Hirely job matching API",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().Bool("seed", false, "Also insert the majors and skills catalogues")

	pruneCmd := &cobra.Command{
		Use:   "prune-resets",
		Short: "Delete expired password reset codes",
		RunE:  runPruneResets,
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, pruneCmd)

	// Allow running without subcommand (default to serve)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_type", cfg.Auth.TokenType,
		"storage", cfg.Storage.Driver,
	)

	// Initialize database connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	majorRepo := user.NewMajorRepository(db)
	skillRepo := skill.NewRepository(db)
	resetRepo := auth.NewPasswordResetRepository(db)
	matchRepo := matching.NewRepository(db)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit)

	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize %s token service: %w", cfg.Auth.TokenType, err)
	}

	hasher, err := auth.NewHasher(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	uploader, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	var uploadsDir string
	if local, ok := uploader.(*storage.LocalStorage); ok {
		uploadsDir = local.Dir()
	}

	// Initialize services
	authService := auth.NewService(auth.ServiceDeps{
		Users:               userRepo,
		Majors:              majorRepo,
		Resets:              resetRepo,
		UnitOfWork:          auth.NewBunUnitOfWork(db),
		Tokens:              tokenService,
		Hasher:              hasher,
		Email:               email.NewService(cfg.Email),
		Logger:              logger,
		AccessTokenDuration: cfg.Auth.AccessTokenDuration,
	})
	userService := user.NewService(userRepo, majorRepo, user.NewBunUnitOfWork(db), uploader)
	skillService := skill.NewService(skillRepo, skill.NewBunUnitOfWork(db))
	matchService := matching.NewService(userRepo, skillRepo, matching.NewGradioClient(cfg.Inference), matchRepo)

	// Initialize HTTP handlers
	v := validator.New()
	handlers := httpServer.Handlers{
		Auth:     auth.NewHandler(authService, rateLimiter, v),
		User:     user.NewHandler(userService, v),
		Skill:    skill.NewHandler(skillService, v),
		Matching: matching.NewHandler(matchService),
	}
	authMiddleware := auth.NewMiddleware(authService)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, uploadsDir, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initTokenService picks the access token format from AUTH_TOKEN_TYPE
func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenType == config.TokenTypePaseto {
		svc, err := auth.NewPasetoService([]byte(cfg.PasetoKey))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	svc, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
