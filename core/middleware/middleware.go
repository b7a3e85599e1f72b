package middleware

import (
	"net/http"
	"strings"

	"eventhub-api/core/cache"
	"eventhub-api/core/constants"
	"eventhub-api/core/controller"
	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.ICache
}

func New(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the Bearer token and stores the parsed claims in
// the request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized,
					controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing Authorization header"))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized,
					controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "invalid Authorization header"))
			}
			tokenStr := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), tokenStr)
				if err != nil {
					// Cache trouble must not lock users out.
					logger.Warn("Middleware:AuthMiddleware:IsTokenBlacklisted", "error", err)
				} else if blacklisted {
					return echo.NewHTTPError(http.StatusUnauthorized,
						controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "token is revoked"))
				}
			}

			claims, err := utils.ValidateAndParseToken(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized,
					controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid or expired token"))
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequireRoles gates a route group to the given roles. Must run after
// AuthMiddleware.
func (m *Middleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized,
					controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "user not authenticated"))
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "insufficient role"))
		}
	}
}
