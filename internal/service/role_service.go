package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/cache"
	apperrors "usersvc/internal/errors"
	"usersvc/internal/model"
	"usersvc/internal/repository"
)

const roleCacheTTL = 10 * time.Minute

// RoleService exposes role domain operations. Role names are restricted to
// the closed enumeration; write operations are admin-only.
type RoleService interface {
	Create(ctx context.Context, actor *model.User, name model.RoleName) (*model.Role, error)
	Get(ctx context.Context, id uint) (*model.Role, error)
	GetByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, actor *model.User, id uint, name model.RoleName) (*model.Role, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewRoleService builds a RoleService with repositories and cache.
func NewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository, cache *cache.Client) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

func (s *roleService) idKey(id uint) string {
	return fmt.Sprintf("role:%d", id)
}

func (s *roleService) nameKey(name model.RoleName) string {
	return fmt.Sprintf("role:name:%s", name)
}

func (s *roleService) Create(ctx context.Context, actor *model.User, name model.RoleName) (*model.Role, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !name.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	if _, err := s.roleRepo.FindByName(ctx, name); err == nil {
		return nil, apperrors.ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check role name: %w", err)
	}

	role := &model.Role{Name: name}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrRoleExists
		}
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	if data, _ := s.cache.Get(ctx, s.idKey(id)); data != nil {
		var cached model.Role
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(role); err == nil {
		_ = s.cache.Set(ctx, s.idKey(id), payload, roleCacheTTL)
	}
	return role, nil
}

func (s *roleService) GetByName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	if data, _ := s.cache.Get(ctx, s.nameKey(name)); data != nil {
		var cached model.Role
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	role, err := s.roleRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(role); err == nil {
		_ = s.cache.Set(ctx, s.nameKey(name), payload, roleCacheTTL)
	}
	return role, nil
}

func (s *roleService) List(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) Update(ctx context.Context, actor *model.User, id uint, name model.RoleName) (*model.Role, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !name.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, err
	}

	oldName := role.Name
	role.Name = name
	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrRoleExists
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	_ = s.cache.Delete(ctx, s.idKey(id), s.nameKey(oldName), s.nameKey(name))
	return role, nil
}

// Delete removes a role. Roles still referenced by users cannot be removed.
func (s *roleService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRoleNotFound
		}
		return err
	}

	inUse, err := s.userRepo.CountByRole(ctx, id)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if inUse > 0 {
		return apperrors.ErrRoleInUse
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRoleNotFound
		}
		return fmt.Errorf("delete role: %w", err)
	}

	_ = s.cache.Delete(ctx, s.idKey(id), s.nameKey(role.Name))
	return nil
}
