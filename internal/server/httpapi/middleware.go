package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

const userContextKey = "user"

// requireUser validates the bearer token and stashes the user in the
// request context. Every failure mode yields the same 401 so callers
// cannot probe which accounts exist.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}

		user, err := s.users.GetUserByToken(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := userFromContext(c)
		if user == nil || !user.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}

func userFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
