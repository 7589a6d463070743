package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/model"
)

// identity extracts the authenticated account id and role stored in the
// context by the JWT middleware.
func identity(c echo.Context) (uint64, model.Role, error) {
	id, ok := c.Get("account_id").(uint64)
	if !ok || id == 0 {
		return 0, "", errors.New("missing account id in context")
	}
	roleStr, _ := c.Get("role").(string)
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return 0, "", errors.New("missing role in context")
	}
	return id, role, nil
}
