package main

import (
	"context"
	"os"

	"usersvc/internal/config"
	"usersvc/internal/db"
	"usersvc/internal/logger"
	"usersvc/internal/model"
	"usersvc/internal/repository"
	"usersvc/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	log.Info().Msg("starting seed")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB, cfg.HardDelete)
	seeder := seed.New(roleRepo, userRepo, cfg, log)

	rolesCreated, err := seeder.Roles(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed roles")
	}

	adminCreated, err := seeder.AdminUser(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin user")
	}

	log.Info().
		Int("roles_created", rolesCreated).
		Bool("admin_created", adminCreated).
		Msg("seed completed")
}
