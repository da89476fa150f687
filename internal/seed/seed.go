// Package seed bootstraps default reference data. Both routines are
// idempotent: existing records are matched by unique key and left alone.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"usersvc/internal/auth"
	"usersvc/internal/config"
	"usersvc/internal/metrics"
	"usersvc/internal/model"
	"usersvc/internal/repository"
)

// Seeder inserts default roles and the admin user at startup.
type Seeder struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	cfg      *config.Config
	log      zerolog.Logger
}

// New creates a Seeder.
func New(roleRepo repository.RoleRepository, userRepo repository.UserRepository, cfg *config.Config, log zerolog.Logger) *Seeder {
	return &Seeder{
		roleRepo: roleRepo,
		userRepo: userRepo,
		cfg:      cfg,
		log:      log,
	}
}

// Run seeds roles first, then the admin user (which references the admin role).
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.Roles(ctx); err != nil {
		return err
	}
	_, err := s.AdminUser(ctx)
	return err
}

// Roles creates each role of the closed enumeration if absent, matched by
// name. Returns the number of roles created.
func (s *Seeder) Roles(ctx context.Context) (int, error) {
	created := 0
	for _, role := range model.DefaultRoles() {
		_, err := s.roleRepo.FindByName(ctx, role.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check role %q: %w", role.Name, err)
		}

		role := role
		if err := s.roleRepo.Create(ctx, &role); err != nil {
			return created, fmt.Errorf("create role %q: %w", role.Name, err)
		}
		s.log.Info().Str("role", string(role.Name)).Msg("seeded role")
		metrics.SeedCreatedTotal.WithLabelValues("role").Inc()
		created++
	}
	return created, nil
}

// AdminUser creates the configured admin user if absent, matched by username.
// Returns true when a user was created.
func (s *Seeder) AdminUser(ctx context.Context) (bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, s.cfg.AdminUsername)
	if err == nil {
		s.log.Debug().Str("username", existing.Username).Msg("admin user already exists")
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin user: %w", err)
	}

	hashed, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     s.cfg.AdminUsername,
		Email:        s.cfg.AdminEmail,
		PasswordHash: hashed,
		FullName:     s.cfg.AdminFullName,
		IsActive:     true,
		RoleID:       model.RoleIDAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}

	s.log.Info().Str("username", admin.Username).Msg("seeded admin user")
	metrics.SeedCreatedTotal.WithLabelValues("user").Inc()
	return true, nil
}
