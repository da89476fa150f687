package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"usersvc/internal/auth"
	"usersvc/internal/config"
	"usersvc/internal/handler"
	"usersvc/internal/middleware"
	"usersvc/internal/model"
	"usersvc/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ResponseSize(log))
	e.Use(echoprometheus.NewMiddleware("usersvc"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), middleware.LoadUser(authService))

	secured.GET("/auth/me", authHandler.Me)

	secured.POST("/users", userHandler.Create)
	secured.GET("/users", userHandler.List)
	secured.GET("/users/:id", userHandler.Get)
	secured.PUT("/users/:id", userHandler.Update)
	secured.DELETE("/users/:id", userHandler.Delete)

	secured.GET("/roles", roleHandler.List)
	secured.GET("/roles/:id", roleHandler.Get)
	secured.GET("/roles/name/:name", roleHandler.GetByName)

	adminOnly := middleware.RBAC(string(model.RoleAdmin))
	secured.POST("/roles", roleHandler.Create, adminOnly)
	secured.PUT("/roles/:id", roleHandler.Update, adminOnly)
	secured.DELETE("/roles/:id", roleHandler.Delete, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
