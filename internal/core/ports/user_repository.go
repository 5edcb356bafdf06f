package ports

import (
	"context"
	"time"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, update UserPatch) error
	Delete(ctx context.Context, id string) error
}

// UserPatch carries the mutable user fields of an admin update. Nil fields
// are left untouched.
type UserPatch struct {
	Email                 *string
	Role                  *string
	Status                *string
	PasswordHash          *string
	SubscriptionExpiredAt *time.Time
}

// IsZero reports whether the patch changes nothing.
func (p UserPatch) IsZero() bool {
	return p.Email == nil && p.Role == nil && p.Status == nil &&
		p.PasswordHash == nil && p.SubscriptionExpiredAt == nil
}

// ResetTokenRepository stores single-use password reset tokens.
type ResetTokenRepository interface {
	Store(ctx context.Context, token, userID string, expiresAt time.Time) error
	// Consume invalidates the token and returns the user it was issued for.
	// Unknown or expired tokens yield domain.ErrResetTokenInvalid.
	Consume(ctx context.Context, token string) (userID string, err error)
}
