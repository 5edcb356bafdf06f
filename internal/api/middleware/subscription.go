package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

// Subscription gates a route on an active subscription. The user is loaded
// fresh so a revocation takes effect before the token expires. Admins pass
// unconditionally. Runs after Auth.
func Subscription(users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return err
			}

			if user.Role != domain.RoleAdmin {
				if user.Status != domain.StatusActive {
					return domain.ErrAccountInactive
				}
				if user.SubscriptionExpiredAt != nil && !user.SubscriptionExpiredAt.After(time.Now()) {
					return domain.ErrSubscriptionExpired
				}
			}

			return next(c)
		}
	}
}
