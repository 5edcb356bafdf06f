package ports

import (
	"context"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// UserUpdateInput is the admin-facing update payload. Zero values mean
// "leave unchanged"; SubscriptionDays extends the expiry from now.
type UserUpdateInput struct {
	Email            string
	Role             string
	Status           string
	Password         string
	SubscriptionDays int
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UserUpdateInput) error
	Delete(ctx context.Context, id string) error
}
