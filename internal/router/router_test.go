package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"usersvc/internal/auth"
	"usersvc/internal/config"
	"usersvc/internal/handler"
	"usersvc/internal/model"
	"usersvc/internal/seed"
	"usersvc/internal/service"
)

// In-memory repositories backing the full stack; no database required.

type fakeRoleRepo struct {
	mu     sync.Mutex
	roles  map[uint]*model.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]*model.Role), nextID: 1}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if role.ID == 0 {
		role.ID = r.nextID
	}
	if role.ID >= r.nextID {
		r.nextID = role.ID + 1
	}
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r *fakeRoleRepo) FindByID(_ context.Context, id uint) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			cp := *role
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) List(_ context.Context) ([]model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.roles, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
	roles  *fakeRoleRepo
}

func newFakeUserRepo(roles *fakeRoleRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1, roles: roles}
}

func (r *fakeUserRepo) withRole(u *model.User) *model.User {
	cp := *u
	if role, ok := r.roles.roles[cp.RoleID]; ok {
		roleCp := *role
		cp.Role = &roleCp
	}
	return &cp
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withRole(user), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return r.withRole(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return r.withRole(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *r.withRole(user))
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, roleID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if user.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	cp.Role = nil
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 30,
		AdminUsername:  "admin",
		AdminEmail:     "admin@example.com",
		AdminPassword:  "admin",
		AdminFullName:  "Admin",
	}

	roleRepo := newFakeRoleRepo()
	userRepo := newFakeUserRepo(roleRepo)

	require.NoError(t, seed.New(roleRepo, userRepo, cfg, zerolog.Nop()).Run(context.Background()))

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, roleRepo, nil)
	roleService := service.NewRoleService(roleRepo, userRepo, nil)

	e := echo.New()
	Register(e, cfg, zerolog.Nop(), authService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
	)
	return e
}

func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestLogin(t *testing.T) {
	e := newTestServer(t)

	t.Run("bad password", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "admin",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("seeded admin", func(t *testing.T) {
		token := login(t, e, "admin", "admin")

		rec := doJSON(e, http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"admin"`)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/users", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserLifecycle(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin", "admin")

	// Create
	rec := doJSON(e, http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"username": "alice",
		"password": "secret123",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		RoleID   uint   `json:"role_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, model.RoleIDGuest, created.RoleID)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret123")

	userPath := fmt.Sprintf("/api/v1/users/%d", created.ID)

	// Read
	rec = doJSON(e, http.MethodGet, userPath, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	// Update
	rec = doJSON(e, http.MethodPut, userPath, token, map[string]string{"full_name": "Alice A."})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"full_name":"Alice A."`)

	// Delete, then 404
	rec = doJSON(e, http.MethodDelete, userPath, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, userPath, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUserConflicts(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin", "admin")

	payload := map[string]interface{}{
		"username": "bob",
		"password": "secret123",
		"email":    "bob@example.com",
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/users", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/users", token, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Exactly one bob plus the seeded admin.
	rec = doJSON(e, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, int64(2), listing.Total)
}

func TestValidationErrors(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"username": "carol",
		"password": "123", // too short
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNonAdminRestrictions(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, "admin", "admin")

	rec := doJSON(e, http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"username": "dave",
		"password": "secret123",
		"email":    "dave@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	daveToken := login(t, e, "dave", "secret123")

	t.Run("user creation is admin-only", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/users", daveToken, map[string]interface{}{
			"username": "eve",
			"password": "secret123",
			"email":    "eve@example.com",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role writes are admin-only", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/roles", daveToken, map[string]string{"name": "support"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("roles are readable by any authenticated user", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/roles", daveToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodGet, "/api/v1/roles/name/guest", daveToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"guest"`)
	})
}

func TestRoleDeleteGuards(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "admin", "admin")

	// The admin role is referenced by the seeded admin user.
	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/roles/%d", model.RoleIDAdmin), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The support role has no users.
	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/roles/%d", model.RoleIDSupport), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/roles/%d", model.RoleIDSupport), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
