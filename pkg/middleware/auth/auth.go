package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

type ValidatorFunc func(claims *tokens.AccessClaims) error

// Authenticator accepts "Authorization: Bearer <jwt>" and falls back to the jwt cookie.
type Authenticator struct {
	JWTSecret    []byte
	CookieSecure bool
}

func NewAuthenticator(secret []byte, cookieSecure bool) *Authenticator {
	return &Authenticator{JWTSecret: secret, CookieSecure: cookieSecure}
}

// Require builds a middleware that authenticates and then runs validator against the claims.
// A nil validator accepts any valid token.
func (m *Authenticator) Require(validator ValidatorFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.requireAuthWithValidator(next, validator)
	}
}

func (m *Authenticator) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, fromCookie := extractToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil || claims.ID == "" {
			if fromCookie {
				c.SetCookie(tokens.DeleteCookie(tokens.CookieName, "/", m.CookieSecure))
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		if validator != nil {
			if vErr := validator(claims); vErr != nil {
				return vErr
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// BearerToken returns the token from the Authorization header, if any.
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func extractToken(c echo.Context) (string, bool) {
	if t := BearerToken(c); t != "" {
		return t, false
	}
	if ck, err := c.Cookie(tokens.CookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	return "", false
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.ID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
}
