package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-accounts/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type accessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	accounts accessTokenValidator
}

func NewAuthMiddleware(accounts accessTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "missing authorization header",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid authorization header format",
			})
		}

		claims, err := m.accounts.ValidateAccessToken(parts[1])
		if err != nil {
			// Expired and malformed tokens are reported differently; an
			// expired session should prompt a fresh login, not confusion.
			if errors.Is(err, service.ErrTokenExpired) {
				logrus.Debug("Expired access token")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "token has expired",
				})
			}
			logrus.Debug("Malformed access token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "malformed token",
			})
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		return next(c)
	}
}
