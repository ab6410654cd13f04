package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	_ "filmoteca/docs" // swagger docs

	"filmoteca/internal/auth"
	"filmoteca/internal/cache"
	"filmoteca/internal/config"
	"filmoteca/internal/db"
	"filmoteca/internal/handler"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
	"filmoteca/internal/router"
	"filmoteca/internal/service"
)

// @title Filmoteca API
// @version 1.0
// @description Personal movie catalog API with JWT authentication and owner-scoped CRUD.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// Misconfiguration is fatal at startup, never a request-time 4xx.
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		logger.Fatalf("jwt secret is required")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQL.DSN)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Movie{},
	); err != nil {
		logger.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWT.Secret)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, cfg.Bcrypt.Cost)
	movieService := service.NewMovieService(movieRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService)

	// Register routes
	router.Register(e, &cfg, authHandler, movieHandler)

	addr := ":" + cfg.Server.Port
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server start: %v", err)
	}
}
