package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usersvc/internal/model"
	"usersvc/internal/service"
)

const currentUserKey = "current_user"

// LoadUser resolves the token subject to a persisted user and stores it in
// the request context for handlers. Must run after the JWT middleware.
func LoadUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := TokenClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			user, err := authService.CurrentUser(c.Request().Context(), claims)
			if err != nil {
				return err
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user installed by LoadUser, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}
