package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/crypto"
	"github.com/example/storefront/internal/db"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/pkg/cache"
)

const (
	revokedTokenPrefix = "revoked_token:"
	emailTakenMessage  = "This email is already taken"
)

// UserServiceConfig holds the settings of the user service.
type UserServiceConfig struct {
	// ClientURL is the frontend origin used to build password reset links.
	ClientURL string
	ResetTTL  time.Duration
}

// userService implements the UserService interface.
type userService struct {
	users    db.UserRepository
	tokens   *crypto.TokenManager
	cache    cache.Cache
	notifier Notifier
	cfg      UserServiceConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(
	users db.UserRepository,
	tokens *crypto.TokenManager,
	c cache.Cache,
	notifier Notifier,
	cfg UserServiceConfig,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:    users,
		tokens:   tokens,
		cache:    c,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func checkUserName(name, message string) error {
	fields := fieldErrors{}
	fields.length("name", name, 3, 50)
	return fields.err(message)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) getUser(ctx context.Context, userID string) (*models.User, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

func (s *userService) authUser(user *models.User) (*models.AuthUser, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
		Role:  user.Role,
		Token: token,
	}, nil
}

// emailTaken reports whether email belongs to a user other than exceptID.
func (s *userService) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return existing.ID != exceptID, nil
}

func (s *userService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthUser, error) {
	name := strings.TrimSpace(req.Name)
	if err := checkUserName(name, "Signup validation failed"); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newFieldError("Signup validation failed", "email", emailTakenMessage)
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:           NewID(),
		Name:         name,
		Email:        email,
		Image:        req.Image,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CartHistory:  []models.Cart{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, newFieldError("Signup validation failed", "email", emailTakenMessage)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.authUser(user)
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthUser, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}
	if err := crypto.ComparePassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Banned {
		return nil, ErrUserBanned
	}
	return s.authUser(user)
}

func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, *crypto.Claims, error) {
	if token == "" {
		return nil, nil, ErrUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	revoked, err := s.cache.Exists(ctx, revokedTokenPrefix+claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrUserGone
		}
		return nil, nil, fmt.Errorf("failed to load authenticated user: %w", err)
	}
	if user.Banned {
		return nil, nil, ErrUserBanned
	}
	return user, claims, nil
}

func (s *userService) Logout(ctx context.Context, claims *crypto.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenPrefix+claims.ID, []byte(claims.UserID), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *userService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	token, hash, err := crypto.NewResetToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.ResetTTL)
	user.PasswordResetToken = hash
	user.PasswordResetExpires = &expires
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	ev := notify.PasswordResetEvent{
		Email:        user.Email,
		Name:         user.Name,
		ResetURL:     strings.TrimRight(s.cfg.ClientURL, "/") + "/reset-password/" + token,
		ExpiresAt:    expires,
		ValidMinutes: int(math.Ceil(s.cfg.ResetTTL.Minutes())),
	}
	if err := s.notifier.PasswordReset(ctx, ev); err != nil {
		return fmt.Errorf("failed to queue password reset email: %w", err)
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, token string, req models.ResetPasswordRequest) (*models.AuthUser, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	user, err := s.users.GetByResetToken(ctx, crypto.HashResetToken(token))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	if user.PasswordResetExpires == nil || !s.now().Before(*user.PasswordResetExpires) {
		return nil, ErrInvalidResetToken
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}
	return s.authUser(user)
}

func (s *userService) UpdateMe(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.AuthUser, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := checkUserName(name, "Update user validation failed"); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if email != user.Email {
		taken, err := s.emailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, newFieldError("Update user validation failed", "email", emailTakenMessage)
		}
	}

	user.Name = name
	user.Email = email
	if req.Image != nil {
		user.Image = *req.Image
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, newFieldError("Update user validation failed", "email", emailTakenMessage)
		}
		return nil, fmt.Errorf("failed to update user '%s': %w", userID, err)
	}
	return s.authUser(user)
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) (*models.AuthUser, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := crypto.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return nil, newFieldError("Change password validation failed", "currentPassword", "Current password is incorrect")
		}
		return nil, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to change password for user '%s': %w", userID, err)
	}
	return s.authUser(user)
}

func (s *userService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, userID)
}

func (s *userService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

func (s *userService) Delete(ctx context.Context, actorID, userID string) error {
	if err := checkID(userID); err != nil {
		return err
	}
	if actorID == userID {
		return ErrSelfAction
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to delete user '%s': %w", userID, err)
	}
	return nil
}

func (s *userService) ToggleBanned(ctx context.Context, actorID, userID string) (*models.PublicUser, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	if actorID == userID {
		return nil, ErrSelfAction
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Banned = !user.Banned
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user '%s': %w", userID, err)
	}
	public := user.Public()
	return &public, nil
}
