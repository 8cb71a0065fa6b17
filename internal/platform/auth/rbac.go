package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. The admin role passes every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RoleResolver reports the role recorded for a user in the profile store,
// or "" when the user has no profile yet.
type RoleResolver func(ctx context.Context, userID string) (string, error)

// StoreRoles merges the profile store's role into the identity's claim
// roles. The store is the role authority: a donor upgrade takes effect on
// the next request instead of waiting for the identity provider to reissue
// a token carrying the new claim. Lookup failures leave the claim roles
// untouched rather than failing the request.
func StoreRoles(resolve RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			uid := UserIDFromContext(ctx)
			if uid == "" {
				return next(c)
			}
			role, err := resolve(ctx, uid)
			if err != nil || role == "" {
				return next(c)
			}
			claims := RolesFromContext(ctx)
			for _, r := range claims {
				if r == role {
					return next(c)
				}
			}
			merged := make([]string, 0, len(claims)+1)
			merged = append(merged, claims...)
			merged = append(merged, role)
			ctx = context.WithValue(ctx, UserRolesKey, merged)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// HasRole reports whether the given role list contains the role or admin.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role || r == "admin" {
			return true
		}
	}
	return false
}
