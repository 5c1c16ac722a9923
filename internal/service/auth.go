package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/neuralhub/neuralhub-go/internal/crypto"
	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/notify"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

// VerificationTTL is how long an email verification link stays valid.
const VerificationTTL = 24 * time.Hour

// ForgotPasswordMessage is returned whether or not the account exists.
const ForgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

// AuthOptions configures an AuthService.
type AuthOptions struct {
	JWTSecret   string
	TokenExpiry time.Duration
	HashCost    int
	// AppURL is the frontend origin that verification and reset links point at.
	AppURL string
	// VerificationBypass enables ManualVerifyEmail.
	VerificationBypass bool
}

// AuthService handles authentication business logic.
type AuthService struct {
	users    repository.UserStore
	notifier notify.Notifier
	opts     AuthOptions
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, notifier notify.Notifier, opts AuthOptions, logger *slog.Logger) *AuthService {
	if opts.TokenExpiry <= 0 {
		opts.TokenExpiry = 7 * 24 * time.Hour
	}
	if opts.HashCost == 0 {
		opts.HashCost = crypto.DefaultHashCost
	}
	opts.AppURL = strings.TrimRight(opts.AppURL, "/")
	return &AuthService{
		users:    users,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an unverified account and sends its verification link.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return model.RegisterResponse{}, ErrRegisterFieldsRequired
	}
	if err := passwordError(req.Password); err != nil {
		return model.RegisterResponse{}, err
	}
	if !validEmail(req.Email) {
		return model.RegisterResponse{}, ErrInvalidEmail
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return model.RegisterResponse{}, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.RegisterResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := crypto.HashPassword(req.Password, s.opts.HashCost)
	if err != nil {
		return model.RegisterResponse{}, err
	}

	token, err := crypto.GenerateToken()
	if err != nil {
		return model.RegisterResponse{}, err
	}

	user, err := s.users.Create(ctx, model.NewUser{
		Email:                    req.Email,
		Name:                     req.Name,
		PasswordHash:             hash,
		EmailVerificationToken:   token,
		EmailVerificationExpires: s.now().Add(VerificationTTL),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.RegisterResponse{}, ErrUserExists
		}
		return model.RegisterResponse{}, fmt.Errorf("create user: %w", err)
	}

	link := s.link("/verify-email", token)
	if err := s.notifier.SendVerification(ctx, user.Email, user.Name, link); err != nil {
		s.logger.ErrorContext(ctx, "send verification link", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	return model.RegisterResponse{
		Message:                   "User created successfully. Please check your email to verify your account.",
		User:                      user.Sanitize(),
		RequiresEmailVerification: true,
	}, nil
}

// Login checks credentials and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.LoginResponse{}, ErrLoginFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.LoginResponse{}, ErrInvalidCredentials
		}
		return model.LoginResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !match {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	// Only reachable with the correct password.
	if !user.EmailVerified {
		return model.LoginResponse{}, ErrEmailNotVerified
	}

	user, err = s.users.UpdateLastLogin(ctx, user.ID)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("update last login: %w", err)
	}

	token, err := crypto.GenerateJWT(user.ID, user.Email, s.opts.JWTSecret, s.opts.TokenExpiry)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		Message: "Login successful",
		User:    user.Sanitize(),
		Token:   token,
	}, nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (model.UserResponse, error) {
	if token == "" {
		return model.UserResponse{}, ErrVerificationTokenRequired
	}

	user, err := s.users.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidVerificationToken
		}
		return model.UserResponse{}, fmt.Errorf("verify email: %w", err)
	}
	return user.Sanitize(), nil
}

// ManualVerifyEmail marks an account verified without a token. It exists for
// local testing and is refused unless the bypass is enabled.
func (s *AuthService) ManualVerifyEmail(ctx context.Context, email string) (model.UserResponse, error) {
	if !s.opts.VerificationBypass {
		return model.UserResponse{}, ErrBypassDisabled
	}
	if email == "" {
		return model.UserResponse{}, ErrEmailRequired
	}

	user, err := s.users.MarkEmailVerified(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, fmt.Errorf("mark email verified: %w", err)
	}

	s.logger.WarnContext(ctx, "email verified through bypass", slog.String("user_id", user.ID))
	return user.Sanitize(), nil
}

// ForgotPassword issues a reset link when the account exists. The result is the
// same either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (model.MessageResponse, error) {
	if email == "" {
		return model.MessageResponse{}, ErrEmailRequired
	}
	generic := model.MessageResponse{Message: ForgotPasswordMessage}

	token, err := crypto.GenerateToken()
	if err != nil {
		return model.MessageResponse{}, err
	}

	user, err := s.users.SetPasswordResetToken(ctx, email, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return generic, nil
		}
		return model.MessageResponse{}, fmt.Errorf("set reset token: %w", err)
	}

	link := s.link("/reset-password", token)
	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		s.logger.ErrorContext(ctx, "send password reset link", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return generic, nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (model.UserResponse, error) {
	if req.Token == "" || req.Password == "" {
		return model.UserResponse{}, ErrResetFieldsRequired
	}
	if err := passwordError(req.Password); err != nil {
		return model.UserResponse{}, err
	}

	// Unknown tokens are turned away before paying for a bcrypt hash. The
	// token is checked again when it is consumed.
	if _, err := s.users.FindByResetToken(ctx, req.Token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidResetToken
		}
		return model.UserResponse{}, fmt.Errorf("find reset token: %w", err)
	}

	hash, err := crypto.HashPassword(req.Password, s.opts.HashCost)
	if err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.users.ResetPassword(ctx, req.Token, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidResetToken
		}
		return model.UserResponse{}, fmt.Errorf("reset password: %w", err)
	}
	return user.Sanitize(), nil
}

// VerifyBearerToken decodes a bearer token. Every failure yields ErrInvalidBearerToken.
func (s *AuthService) VerifyBearerToken(token string) (model.Identity, error) {
	claims, err := crypto.ValidateJWT(token, s.opts.JWTSecret)
	if err != nil {
		return model.Identity{}, ErrInvalidBearerToken
	}
	return model.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// GetProfile returns the sanitized account of userID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, fmt.Errorf("find user: %w", err)
	}
	return user.Sanitize(), nil
}

// UpdateProfile applies a partial update to the user-editable fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd model.UserUpdate) (model.UserResponse, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return model.UserResponse{}, ErrNameRequired
	}

	user, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, fmt.Errorf("update user: %w", err)
	}
	return user.Sanitize(), nil
}

func (s *AuthService) link(path, token string) string {
	return s.opts.AppURL + path + "?token=" + url.QueryEscape(token)
}
