package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/auth"
	"usersvc/internal/cache"
	apperrors "usersvc/internal/errors"
	"usersvc/internal/metrics"
	"usersvc/internal/model"
	"usersvc/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries validated fields for user creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	IsActive *bool
	RoleID   *uint
}

// UpdateUserInput carries optional fields for user updates. Nil fields are
// left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	IsActive *bool
	RoleID   *uint
}

// UserService exposes user domain operations. Every mutating operation takes
// the acting user and enforces the authorization rules itself.
type UserService interface {
	Create(ctx context.Context, actor *model.User, in CreateUserInput) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	Update(ctx context.Context, actor *model.User, id uint, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	cache    *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, cache *cache.Client) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		cache:    cache,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// validateRole checks that roleID references an existing role.
func (s *userService) validateRole(ctx context.Context, roleID uint) error {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidRole
		}
		return err
	}
	return nil
}

// Create persists a new user. Only admins may create users. The password is
// hashed before persisting; users without an explicit role get the guest role.
func (s *userService) Create(ctx context.Context, actor *model.User, in CreateUserInput) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	roleID := model.RoleIDGuest
	if in.RoleID != nil {
		roleID = *in.RoleID
	}
	if err := s.validateRole(ctx, roleID); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FullName:     in.FullName,
		IsActive:     true,
		RoleID:       roleID,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	return s.Get(ctx, user.ID)
}

// Get retrieves a user by ID with read-through caching.
func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// List returns a page of users and the total count.
func (s *userService) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update applies partial changes. Admins may update anyone; other users may
// only update themselves.
func (s *userService) Update(ctx context.Context, actor *model.User, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperrors.ErrForbidden
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.RoleID != nil {
		if err := s.validateRole(ctx, *in.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *in.RoleID
		user.Role = nil
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.Get(ctx, id)
}

// Delete removes a user. Admins may delete anyone; other users may only
// delete themselves. Hard vs soft delete is decided by the repository.
func (s *userService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if !actor.IsAdmin() && actor.ID != id {
		return apperrors.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
