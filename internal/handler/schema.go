package handler

import (
	"time"

	"usersvc/internal/model"
)

// Wire-facing schemas, kept separate from the persistence models. Responses
// never carry the password hash.

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful authentication response.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest represents a user creation request.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	FullName string `json:"full_name" validate:"max=255"`
	IsActive *bool  `json:"is_active"`
	RoleID   *uint  `json:"role_id"`
}

// UpdateUserRequest represents a partial user update. Absent fields are left
// untouched.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
	RoleID   *uint   `json:"role_id"`
}

// UserResponse is the transfer object for users.
type UserResponse struct {
	ID        uint          `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name,omitempty"`
	IsActive  bool          `json:"is_active"`
	RoleID    uint          `json:"role_id"`
	Role      *RoleResponse `json:"role,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UserListResponse is the paginated envelope for user listings.
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// RoleRequest represents a role create or update request.
type RoleRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// RoleResponse is the transfer object for roles.
type RoleResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		RoleID:    u.RoleID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Role != nil {
		role := toRoleResponse(u.Role)
		resp.Role = &role
	}
	return resp
}

func toRoleResponse(r *model.Role) RoleResponse {
	return RoleResponse{
		ID:   r.ID,
		Name: string(r.Name),
	}
}
