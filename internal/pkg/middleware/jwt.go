package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/myreprise/payflow/internal/pkg/jwt"
	"github.com/myreprise/payflow/internal/pkg/models"
	"github.com/myreprise/payflow/internal/utils"
)

// JWTAuthMiddleware creates a middleware for JWT authentication on the
// merchant-facing command API
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			merchantID, ok := (*claims)["merchant_id"]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing merchant_id claim")
			}

			c.Set("merchant_id", fmt.Sprintf("%v", merchantID))

			return next(c)
		}
	}
}
