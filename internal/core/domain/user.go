package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User models an authenticated actor of the platform. Subscription access is
// time bounded for members; admins are never gated by it.
type User struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	Role                  string     `json:"role"`
	Status                string     `json:"status"`
	SubscriptionExpiredAt *time.Time `json:"subscription_expired_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// HasActiveSubscription reports whether the user may reach subscription-gated
// features at the given instant. Admins always pass; an unset expiry means an
// unlimited subscription.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Status != StatusActive {
		return false
	}
	if u.SubscriptionExpiredAt == nil {
		return true
	}
	return u.SubscriptionExpiredAt.After(now)
}
