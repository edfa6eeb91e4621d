package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newsai/admin-api/internal/config"
	"github.com/newsai/admin-api/internal/email"
	"github.com/newsai/admin-api/internal/handler"
	adHandler "github.com/newsai/admin-api/internal/handler/advertisement"
	articleHandler "github.com/newsai/admin-api/internal/handler/article"
	authHandler "github.com/newsai/admin-api/internal/handler/auth"
	categoryHandler "github.com/newsai/admin-api/internal/handler/category"
	settingHandler "github.com/newsai/admin-api/internal/handler/setting"
	userHandler "github.com/newsai/admin-api/internal/handler/user"
	"github.com/newsai/admin-api/internal/middleware"
	"github.com/newsai/admin-api/internal/repository/postgres"
	"github.com/newsai/admin-api/internal/router"
	adService "github.com/newsai/admin-api/internal/service/advertisement"
	articleService "github.com/newsai/admin-api/internal/service/article"
	authService "github.com/newsai/admin-api/internal/service/auth"
	categoryService "github.com/newsai/admin-api/internal/service/category"
	eventService "github.com/newsai/admin-api/internal/service/event"
	settingService "github.com/newsai/admin-api/internal/service/setting"
	userService "github.com/newsai/admin-api/internal/service/user"
	"github.com/newsai/admin-api/pkg/auth"
	"github.com/newsai/admin-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(postgres.DBConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	articleRepo := postgres.NewArticleRepository(baseRepo)
	categoryRepo := postgres.NewCategoryRepository(baseRepo)
	adRepo := postgres.NewAdRepository(baseRepo)
	userRepo := postgres.NewUserRepository(baseRepo)
	settingRepo := postgres.NewSettingRepository(baseRepo)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	// Services
	tokens := auth.NewTokenService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	emailSvc := email.NewGomailService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		BaseURL:  cfg.Email.BaseURL,
	})

	eventSvc := eventService.NewService(outboxRepo)
	articleSvc := articleService.NewService(articleRepo, eventSvc)
	categorySvc := categoryService.NewService(categoryRepo)
	adSvc := adService.NewService(adRepo, eventSvc)
	userSvc := userService.NewService(userRepo)
	authSvc := authService.NewService(userRepo, tokens, emailSvc)
	settingSvc := settingService.NewService(settingRepo)

	// Middleware and handlers
	authMW := middleware.NewAuthMiddleware(tokens)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMW,
		authHandler.NewHandler(authSvc, userSvc),
		h,
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORS:           middleware.DefaultCORSConfig(),
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		articleHandler.NewHandler(articleSvc),
		categoryHandler.NewHandler(categorySvc),
		adHandler.NewHandler(adSvc),
		userHandler.NewHandler(userSvc),
		settingHandler.NewHandler(settingSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited")
}

func parseLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
