package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_input").Inc()
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues("register", authOutcome(err)).Inc()
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, "login", h.authService.Login)
}

// AdminLogin is Login restricted to admin accounts.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, "admin_login", h.authService.AdminLogin)
}

type loginFunc func(ctx context.Context, email, password string) (*ports.AuthResult, error)

func (h *AuthHandler) login(c echo.Context, op string, fn loginFunc) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(op, "invalid_input").Inc()
		return err
	}

	res, err := fn(c.Request().Context(), req.Email, req.Password)
	metrics.AuthAttemptsTotal.WithLabelValues(op, authOutcome(err)).Inc()
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(op).Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Profile returns the authenticated user's current record.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: user})
}

// UpdateProfile changes the provided fields and returns a refreshed token.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ConfirmPassword != nil && (req.Password == nil || *req.Password != *req.ConfirmPassword) {
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	res, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, toProfileUpdate(req))
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("profile_update").Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// UploadAvatar replaces the profile image and returns a refreshed token.
//
// @Summary      Upload profile image
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "JPEG, PNG, GIF or WEBP image, at most 5MB"
// @Success      200    {object}  avatarResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /auth/profile/image [post]
func (h *AuthHandler) UploadAvatar(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	img, err := formImage(c, "image", "profileImage")
	if err != nil {
		return err
	}
	if img == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file uploaded")
	}

	res, err := h.authService.UpdateAvatar(c.Request().Context(), user.ID, img.Filename, img.Data)
	if err != nil {
		return err
	}

	metrics.ImageUploadsTotal.WithLabelValues("avatar").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("avatar_update").Inc()
	return c.JSON(http.StatusOK, toAvatarResponse(res))
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized").SetInternal(domain.ErrUnauthenticated)
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// authOutcome maps a service result to the auth_attempts_total result label.
func authOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrEmailTaken):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
