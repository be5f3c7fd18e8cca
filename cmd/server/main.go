package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"marketplace/docs"
	"marketplace/internal/auth"
	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/handler"
	"marketplace/internal/logger"
	"marketplace/internal/mail"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/router"
	"marketplace/internal/service"
)

// @title Marketplace API
// @version 1.0
// @description Marketplace API with users, products and reviews, JWT authentication and role based access.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv, os.Stdout)

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("database init", map[string]interface{}{"error": err})
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables", nil)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatal("database migrate", map[string]interface{}{"error": err})
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	mailer := mail.New(cfg.Mail, log.WithFields(map[string]interface{}{"component": "mail"}))

	consistency := service.NewConsistencyManager(userRepo, productRepo, reviewRepo, log.WithFields(map[string]interface{}{"component": "consistency"}))
	authService := service.NewAuthService(userRepo, jwtService, cacheClient, mailer, log, cfg.Auth.ResetTokenTTL)
	userService := service.NewUserService(userRepo, consistency, cacheClient, log)
	productService := service.NewProductService(productRepo, userRepo, consistency, log)
	reviewService := service.NewReviewService(reviewRepo, productRepo, consistency, log)

	cookie := handler.CookieOptions{
		Expiry: cfg.Auth.CookieExpiry(),
		Secure: cfg.AppEnv == "production",
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		log,
		middleware.NewAuthMiddleware(jwtService, authService),
		handler.NewAuthHandler(authService, cookie, cfg.PublicURL),
		handler.NewUserHandler(userService),
		handler.NewProductHandler(productService),
		handler.NewReviewHandler(reviewService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Info("swagger documentation available", map[string]interface{}{
		"url": "http://" + docs.SwaggerInfo.Host + "/swagger/index.html",
	})

	go func() {
		log.Info("server starting", map[string]interface{}{"port": cfg.ServerPort, "env": cfg.AppEnv})
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", map[string]interface{}{"error": err})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", map[string]interface{}{"error": err})
	}
	if err := cacheClient.Close(); err != nil {
		log.Warn("cache close", map[string]interface{}{"error": err})
	}
	if err := db.Close(gormDB); err != nil {
		log.Warn("database close", map[string]interface{}{"error": err})
	}
	log.Info("server stopped", nil)
}
