package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

// UserService implements the admin member-management operations.
type UserService struct {
	users ports.UserRepository
	now   func() time.Time
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Update applies the non-zero fields of input. A positive SubscriptionDays
// extends the subscription that many days from now, matching the behavior
// members expect when an admin tops a plan up.
func (s *UserService) Update(ctx context.Context, id string, input ports.UserUpdateInput) error {
	var patch ports.UserPatch

	if input.Email != "" {
		patch.Email = &input.Email
	}
	if input.Role != "" {
		patch.Role = &input.Role
	}
	if input.Status != "" {
		patch.Status = &input.Status
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashStr := string(hash)
		patch.PasswordHash = &hashStr
	}
	if input.SubscriptionDays > 0 {
		expiry := s.now().UTC().AddDate(0, 0, input.SubscriptionDays)
		patch.SubscriptionExpiredAt = &expiry
	}

	if patch.IsZero() {
		return domain.ErrNoFieldsToUpdate
	}
	return s.users.Update(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
