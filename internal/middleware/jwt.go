// Package middleware carries the request-scoped auth plumbing: JWT
// verification and role gates. Handlers read the verified identity via
// Actor.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/jualabs/juajobs/internal/domain/user"
)

// JWT verifies the Authorization bearer token and stores user_id and
// role in the request context.
func JWT(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			if tokenStr == header {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "malformed authorization header"})
			}

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
			}
			id, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if id == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token claims"})
			}

			c.Set("user_id", id)
			c.Set("role", role)
			return next(c)
		}
	}
}

// Actor returns the authenticated identity set by JWT.
func Actor(c echo.Context) user.User {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	return user.Actor(id, role)
}
