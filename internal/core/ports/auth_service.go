package ports

import (
	"context"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email, role string, subscriptionDays int) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	// ForgotPassword issues a reset token for the account behind email. It
	// succeeds silently for unknown addresses so the endpoint cannot be
	// used to probe for accounts.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}
