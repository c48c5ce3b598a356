package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/core"
	"github.com/example/storefront/internal/crypto"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/pkg/api"
)

// AuthCookieName is the cookie that carries the access token for browsers.
const AuthCookieName = "jwt-ecommerce-website"

const (
	userKey   = "user"
	claimsKey = "claims"
)

// AuthMiddleware authenticates requests with the user service.
type AuthMiddleware struct {
	users  core.UserService
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(users core.UserService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{users: users, logger: logger}
}

// tokenFrom reads the bearer token, falling back to the auth cookie.
func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// VerifyToken requires a valid token of an existing, not banned user and
// stores the user and the token claims in the context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := m.users.Authenticate(c.Request.Context(), tokenFrom(c))
		if err != nil {
			switch {
			case errors.Is(err, core.ErrUserBanned):
				api.Abort(c, http.StatusForbidden, "Your account has been banned")
			case errors.Is(err, core.ErrSessionExpired):
				api.Abort(c, http.StatusUnauthorized, "Your session has expired, please log in again")
			case errors.Is(err, core.ErrUserGone):
				api.Abort(c, http.StatusUnauthorized, "The user belonging to this token no longer exists")
			case errors.Is(err, core.ErrUnauthorized):
				api.Abort(c, http.StatusUnauthorized, "You are not logged in, please log in to get access")
			default:
				m.logger.Error("Failed to authenticate request", zap.String("request_id", RequestID(c)), zap.Error(err))
				api.Abort(c, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows only users holding one of roles. It must run after
// VerifyToken.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			api.Abort(c, http.StatusUnauthorized, "You are not logged in, please log in to get access")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		api.Abort(c, http.StatusForbidden, "You do not have permission to perform this action")
	}
}

// CurrentUser returns the authenticated user, or nil outside VerifyToken.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentClaims returns the claims of the presented token.
func CurrentClaims(c *gin.Context) *crypto.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*crypto.Claims)
	return claims
}
