package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/pkg/api"
)

// CookieConfig controls the auth cookie set on login.
type CookieConfig struct {
	MaxAgeSeconds int
	Secure        bool
}

// UserHandler handles account and authentication endpoints.
type UserHandler struct {
	users  core.UserService
	cookie CookieConfig
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users core.UserService, cookie CookieConfig, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, cookie: cookie, logger: logger}
}

func (h *UserHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, h.cookie.MaxAgeSeconds, "/", "", h.cookie.Secure, true)
}

func (h *UserHandler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.cookie.Secure, true)
}

// respondAuth sets the cookie and returns the auth user.
func (h *UserHandler) respondAuth(c *gin.Context, code int, auth *models.AuthUser) {
	h.setAuthCookie(c, auth.Token)
	api.Success(c, code, auth)
}

// Signup handles POST /users/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	auth, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAuth(c, http.StatusCreated, auth)
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	auth, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAuth(c, http.StatusOK, auth)
}

// Logout handles GET /users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.clearAuthCookie(c)
	api.Success(c, http.StatusOK, nil)
}

// ForgotPassword handles POST /users/forgot-password. The response does not
// reveal whether the email is registered.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.ForgotPassword(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

// ResetPassword handles PATCH /users/reset-password/:token.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	auth, err := h.users.ResetPassword(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAuth(c, http.StatusOK, auth)
}

// UpdateMe handles PATCH /users.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	auth, err := h.users.UpdateMe(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAuth(c, http.StatusOK, auth)
}

// ChangePassword handles PATCH /users/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	auth, err := h.users.ChangePassword(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondAuth(c, http.StatusOK, auth)
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetMe(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, user)
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, users)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, nil)
}

// ToggleBanned handles GET /users/toggle-banned-user/:id.
func (h *UserHandler) ToggleBanned(c *gin.Context) {
	user, err := h.users.ToggleBanned(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	api.Success(c, http.StatusOK, user)
}
