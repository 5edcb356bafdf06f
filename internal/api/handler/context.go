package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware. An
// empty user_id means the middleware did not run or the token is malformed;
// fail fast with a 401 before any service call.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return userID, role, nil
}
