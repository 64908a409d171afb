package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID.String(), Email: u.Email, Role: u.Role}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req.Command())
	if err != nil {
		return fail(l, "register_error", err)
	}

	return respond(c, http.StatusCreated, "User registered successfully", viewOf(user))
}

func (h *AuthHTTP) startSession(c echo.Context, sess *service.Session) error {
	c.SetCookie(tokens.CreateCookie(tokens.CookieName, sess.Token, "/", sess.ExpiresAt, h.CookieSecure))
	return respond(c, http.StatusOK, "Login successful", map[string]any{
		"token": sess.Token,
		"user":  viewOf(sess.User),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "login_error", err)
	}

	sess, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", sess.User.ID)
	return h.startSession(c, sess)
}

func (h *AuthHTTP) LoginOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login_otp")

	var req transport.EmailRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "login_otp_error", err)
	}

	masked, err := h.Svc.RequestOTP(ctx, req.Email)
	if err != nil {
		return fail(l, "login_otp_error", err)
	}

	l.Info("login_otp_success")
	return respond(c, http.StatusOK, "OTP sent to "+masked, nil)
}

func (h *AuthHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_otp")

	var req transport.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "verify_otp_error", err)
	}

	sess, err := h.Svc.VerifyOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return fail(l, "verify_otp_error", err)
	}

	l.Info("verify_otp_success", "user_id", sess.User.ID)
	return h.startSession(c, sess)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.CookieName, "/", h.CookieSecure))
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.EmailRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "forgot_password_error", err)
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		// the answer must not depend on whether the account exists
		l.Error("forgot_password_error", "status", http.StatusOK, "error", err)
	}
	return respond(c, http.StatusOK, "If the account exists a reset link has been sent", nil)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "reset_password_error", err)
	}

	if err := h.Svc.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return fail(l, "reset_password_error", err)
	}

	l.Info("reset_password_success")
	return respond(c, http.StatusOK, "Password has been reset", nil)
}
