package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mail"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

// SendLimiter throttles OTP mails per address.
type SendLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type AuthService struct {
	Repo    *repo.GormRepo
	Mailer  mail.Mailer
	Limiter SendLimiter
	Events  events.Publisher

	JWTSecret   []byte
	TokenTTL    time.Duration
	OTPTTL      time.Duration
	ResetTTL    time.Duration
	FrontendURL string

	Now func() time.Time
}

// Session is a signed-in user together with its access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	email := normalizeEmail(cmd.Email)

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, fail(ErrConflict, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(cmd.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		UserName:     strings.TrimSpace(cmd.UserName),
		PasswordHash: pwHash,
		Role:         authz.RoleUser.String(),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fail(ErrConflict, "User already exists")
		}
		return nil, err
	}

	events.Publish(ctx, s.Events, events.TopicUser, user.ID.String(), events.New("user_registered", map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}))
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fail(ErrInvalidCredentials, "Invalid email or password")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, exp, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Email, user.Role, s.now(), s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// RequestOTP mails a fresh one-time login code and returns the masked address it went to.
func (s *AuthService) RequestOTP(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.request_otp")
	email = normalizeEmail(email)

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, email)
		if err != nil {
			l.Warn("otp_throttle_unavailable", "error", err)
		} else if !ok {
			return "", fail(ErrTooManyRequests, "Too many OTP requests, please try again later")
		}
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fail(ErrNotFound, "User not found")
		}
		return "", err
	}

	code, err := hash.NewOTP()
	if err != nil {
		return "", err
	}
	codeHash, err := hash.HashPassword(code)
	if err != nil {
		return "", err
	}
	exp := s.now().Add(s.OTPTTL)
	if err := s.Repo.UpdateUser(ctx, user.ID, map[string]any{"otp_hash": codeHash, "otp_expires_at": exp}); err != nil {
		return "", err
	}

	if err := s.Mailer.SendOTP(ctx, user.Email, code, s.OTPTTL); err != nil {
		l.Error("send_otp_error", "reason", "mail delivery failed", "error", err)
		if cErr := s.clearOTP(ctx, user.ID); cErr != nil {
			l.Error("clear_otp_error", "error", cErr)
		}
		return "", fmt.Errorf("send otp: %w", err)
	}

	l.Info("send_otp_success", "user_id", user.ID)
	return MaskEmail(user.Email), nil
}

func (s *AuthService) clearOTP(ctx context.Context, id uuid.UUID) error {
	return s.Repo.UpdateUser(ctx, id, map[string]any{"otp_hash": nil, "otp_expires_at": nil})
}

// VerifyOTP consumes a pending login code. Expiry is checked before the code itself so an
// expired code is always cleared.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	user, err := s.Repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "User not found")
		}
		return nil, err
	}

	if user.OTPHash == nil || user.OTPExpiresAt == nil {
		return nil, fail(ErrInvalidState, "No OTP pending")
	}
	if !s.now().Before(*user.OTPExpiresAt) {
		if err := s.clearOTP(ctx, user.ID); err != nil {
			return nil, err
		}
		return nil, fail(ErrExpired, "OTP has expired")
	}
	if !hash.CheckPassword(*user.OTPHash, code) {
		return nil, fail(ErrInvalidCredentials, "Invalid OTP")
	}

	if err := s.clearOTP(ctx, user.ID); err != nil {
		return nil, err
	}
	user.OTPHash, user.OTPExpiresAt = nil, nil
	return s.issue(user)
}

// ForgotPassword never reports whether the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	user, err := s.Repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Info("forgot_password_unknown_email")
			return nil
		}
		return err
	}

	token, err := hash.NewToken(32)
	if err != nil {
		return err
	}
	exp := s.now().Add(s.ResetTTL)
	if err := s.Repo.UpdateUser(ctx, user.ID, map[string]any{
		"reset_token_hash": hash.Sha256Hex(token),
		"reset_expires_at": exp,
	}); err != nil {
		return err
	}

	link := strings.TrimRight(s.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, link, s.ResetTTL); err != nil {
		l.Error("send_reset_error", "reason", "mail delivery failed", "error", err)
		return fmt.Errorf("send reset: %w", err)
	}
	l.Info("forgot_password_success", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.Repo.UserByResetHash(ctx, hash.Sha256Hex(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrValidation, "Invalid or expired reset token")
		}
		return err
	}
	if user.ResetExpiresAt == nil || !s.now().Before(*user.ResetExpiresAt) {
		return fail(ErrExpired, "Invalid or expired reset token")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.UpdateUser(ctx, user.ID, map[string]any{
		"password_hash":    pwHash,
		"reset_token_hash": nil,
		"reset_expires_at": nil,
		"otp_hash":         nil,
		"otp_expires_at":   nil,
	})
}

// MaskEmail keeps the first letter of the local part, e.g. j***@example.com.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
