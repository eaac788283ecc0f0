package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// ctxIdentity assembles the Identity injected by the Auth middleware and
// fast-fails before any service call: a missing role means the middleware
// did not run on this route.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	id, _ := c.Get("user_id").(uint)
	username, _ := c.Get("username").(string)
	email, _ := c.Get("email").(string)

	return domain.Identity{ID: id, Username: username, Email: email, Role: role}, nil
}
