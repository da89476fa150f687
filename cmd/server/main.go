package main

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"usersvc/docs"
	"usersvc/internal/auth"
	"usersvc/internal/cache"
	"usersvc/internal/config"
	"usersvc/internal/db"
	"usersvc/internal/handler"
	"usersvc/internal/logger"
	"usersvc/internal/model"
	"usersvc/internal/repository"
	"usersvc/internal/router"
	"usersvc/internal/seed"
	"usersvc/internal/service"
)

// @title User & Role Administration API
// @version 1.0
// @description Layered user and role administration API with JWT authentication and role-based access control.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger not built yet; write to stderr and bail.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB, cfg.HardDelete)
	roleRepo := repository.NewRoleRepository(gormDB)

	// Seed default roles and the admin user. A missing store is fatal here.
	if err := seed.New(roleRepo, userRepo, cfg, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())

	// Services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, roleRepo, cacheClient)
	roleService := service.NewRoleService(roleRepo, userRepo, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, cfg, log, authService, authHandler, userHandler, roleHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
