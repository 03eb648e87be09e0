package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/services"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type installURLResponse struct {
	InstallationURL string `json:"installation_url"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type usageLogResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "stremhub"})
}

// issueToken exchanges a username/password form for a bearer token.
func (s *Server) issueToken(c echo.Context) error {

	email := c.FormValue("username")
	password := c.FormValue("password")

	token, err := s.users.Login(c.Request().Context(), email, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// traktLogin sends the caller's browser to the provider authorization page.
func (s *Server) traktLogin(c echo.Context) error {
	user := userFromContext(c)
	return c.Redirect(http.StatusTemporaryRedirect, s.trakt.BeginLink(user.ID))
}

// traktCallback completes the OAuth link. Provider detail is logged but
// never echoed back to the browser.
func (s *Server) traktCallback(c echo.Context) error {

	ctx := c.Request().Context()
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	if _, err := s.trakt.CompleteLink(ctx, code, state); err != nil {
		if errors.Is(err, common.ErrOAuthExchange) {
			s.logger.Error(ctx, "trakt token exchange failed", "error", err.Error())
			return echo.NewHTTPError(http.StatusBadGateway, "failed to authenticate with Trakt")
		}
		s.logger.Error(ctx, "error saving trakt link", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "linked"})
}

type traktStatusResponse struct {
	Linked    bool   `json:"linked"`
	Scope     string `json:"scope,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// traktStatus reports whether the caller's account is linked. Token
// material stays server-side; only link metadata is exposed.
func (s *Server) traktStatus(c echo.Context) error {
	user := userFromContext(c)

	link, err := s.trakt.GetLink(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusOK, traktStatusResponse{Linked: false})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, traktStatusResponse{
		Linked:    true,
		Scope:     link.Scope,
		CreatedAt: link.CreatedAt,
		ExpiresIn: link.ExpiresIn,
	})
}

func (s *Server) torrentioInstallURL(c echo.Context) error {
	return s.installURL(c, services.ModeTorrentio)
}

func (s *Server) aggregatorInstallURL(c echo.Context) error {
	return s.installURL(c, services.ModeAggregator)
}

func (s *Server) installURL(c echo.Context, mode services.InstallMode) error {
	ctx := c.Request().Context()
	user := userFromContext(c)

	u, err := s.addons.InstallURL(ctx, user.ID, services.InstallRequest{Mode: mode})
	if err != nil {
		s.logger.Error(ctx, "error issuing install url", "mode", string(mode), "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, installURLResponse{InstallationURL: u})
}

func (s *Server) listUsageLogs(c echo.Context) error {

	offset, limit, err := pagination(c)
	if err != nil {
		return err
	}

	logs, err := s.addons.UsageLogs(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]usageLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, usageLogResponse{ID: l.ID, UserID: l.UserID, CreatedAt: l.CreatedAt})
	}

	return c.JSON(http.StatusOK, out)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (s *Server) createUser(c echo.Context) error {

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := s.users.Register(c.Request().Context(), req.Email, req.Password, req.IsAdmin)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) listUsers(c echo.Context) error {

	offset, limit, err := pagination(c)
	if err != nil {
		return err
	}

	users, err := s.users.List(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) currentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(userFromContext(c)))
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (s *Server) updateUser(c echo.Context) error {

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := s.users.Update(c.Request().Context(), id, services.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, common.ErrDuplicateEmail):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) deleteUser(c echo.Context) error {

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) stats(c echo.Context) error {
	stats, err := s.analytics.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, stats)
}

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

func pagination(c echo.Context) (offset, limit int, err error) {

	offset, limit = 0, defaultPageLimit

	if v := c.QueryParam("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
	}

	return offset, limit, nil
}
