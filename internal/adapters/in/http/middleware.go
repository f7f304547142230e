package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/ports"
	"repairshop/internal/pkg/tenantctx"
)

// Claims carries the authenticated user's identity. The token deliberately
// does not carry the tenant: the tenant is read from the user's own record,
// so a forged or stale tenant claim cannot widen access.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware authenticates requests with a Bearer token and installs the
// tenant scope on the request context. The user lookup runs before the scope
// exists and is therefore unscoped; this is the single sanctioned system-level
// read on the request path.
//
// Everything after this middleware operates under the resolved tenant: the
// data layer filters by it, and handlers never see requests without it.
func AuthMiddleware(secret []byte, userRepo ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "Missing bearer token",
				})
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "Invalid token",
				})
			}

			userID, err := kernel.UUIDFromString(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "Invalid token subject",
				})
			}

			actor, err := userRepo.Get(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    http.StatusUnauthorized,
					Message: "Unknown user",
				})
			}

			scope := tenantctx.Scope{
				TenantID: actor.TenantID(),
				UserID:   actor.ID(),
			}
			ctx := tenantctx.WithScope(c.Request().Context(), scope)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
