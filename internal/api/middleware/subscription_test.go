package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

type stubUserRepo struct {
	user *domain.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Update(ctx context.Context, id string, update ports.UserPatch) error {
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func subscriptionContext(e *echo.Echo, userID string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c
}

func TestSubscription_ActiveMemberPasses(t *testing.T) {
	e := echo.New()
	expiry := time.Now().Add(24 * time.Hour)
	repo := &stubUserRepo{user: &domain.User{
		ID:                    "u1",
		Role:                  domain.RoleMember,
		Status:                domain.StatusActive,
		SubscriptionExpiredAt: &expiry,
	}}
	c := subscriptionContext(e, "u1")

	called := false
	handler := Subscription(repo)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSubscription_UnlimitedMemberPasses(t *testing.T) {
	e := echo.New()
	repo := &stubUserRepo{user: &domain.User{
		ID:     "u1",
		Role:   domain.RoleMember,
		Status: domain.StatusActive,
	}}
	c := subscriptionContext(e, "u1")

	called := false
	handler := Subscription(repo)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSubscription_InactiveAccount(t *testing.T) {
	e := echo.New()
	repo := &stubUserRepo{user: &domain.User{
		ID:     "u1",
		Role:   domain.RoleMember,
		Status: domain.StatusInactive,
	}}
	c := subscriptionContext(e, "u1")

	handler := Subscription(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestSubscription_ExpiredSubscription(t *testing.T) {
	e := echo.New()
	expiry := time.Now().Add(-time.Hour)
	repo := &stubUserRepo{user: &domain.User{
		ID:                    "u1",
		Role:                  domain.RoleMember,
		Status:                domain.StatusActive,
		SubscriptionExpiredAt: &expiry,
	}}
	c := subscriptionContext(e, "u1")

	handler := Subscription(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrSubscriptionExpired) {
		t.Fatalf("expected ErrSubscriptionExpired, got %v", err)
	}
}

func TestSubscription_AdminBypassesGates(t *testing.T) {
	e := echo.New()
	expiry := time.Now().Add(-time.Hour)
	repo := &stubUserRepo{user: &domain.User{
		ID:                    "a1",
		Role:                  domain.RoleAdmin,
		Status:                domain.StatusInactive,
		SubscriptionExpiredAt: &expiry,
	}}
	c := subscriptionContext(e, "a1")

	called := false
	handler := Subscription(repo)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSubscription_UnknownUser(t *testing.T) {
	e := echo.New()
	repo := &stubUserRepo{}
	c := subscriptionContext(e, "ghost")

	handler := Subscription(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
