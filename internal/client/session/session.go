// Package session owns the client's authentication state: who is logged in
// and what they may reach. It is the only writer of the current identity.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	"github.com/refi-rr/crypto-dss/internal/client/gateway"
	"github.com/refi-rr/crypto-dss/internal/client/store"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// Session is a two-state machine: anonymous or authenticated. Transitions
// happen on Init, Login and Logout only.
type Session struct {
	gw    *gateway.Gateway
	store *store.Store
	bus   *bus.Bus
	log   zerolog.Logger
	now   func() time.Time

	user          *domain.User
	authenticated bool
}

// New builds an anonymous Session. A gateway-forced logout (401) resets the
// session state without a second broadcast round trip.
func New(gw *gateway.Gateway, st *store.Store, b *bus.Bus, log zerolog.Logger) *Session {
	s := &Session{gw: gw, store: st, bus: b, log: log, now: time.Now}
	b.SubscribeLogout(func() {
		s.user = nil
		s.authenticated = false
	})
	return s
}

// Init restores a persisted session. With a stored credential it fetches the
// current identity; a rejected or unusable credential degrades to a clean
// logout. Returns whether the session ended up authenticated.
func (s *Session) Init(ctx context.Context) bool {
	if _, ok := s.store.Token(); !ok {
		return false
	}

	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored credential rejected")
		s.Logout()
		return false
	}

	s.user = user
	s.authenticated = true
	return true
}

// Login authenticates against the API. On success the identity is stored and
// a login notification carrying it is broadcast. On failure the session stays
// anonymous and the error propagates; nothing is broadcast.
func (s *Session) Login(ctx context.Context, username, password string) (*domain.User, error) {
	res, err := s.gw.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s.user = res.User
	s.authenticated = true
	s.bus.PublishLogin(s.user)
	return s.user, nil
}

// Logout unconditionally returns the session to anonymous. The credential is
// cleared and a logout notification broadcast even when already anonymous.
func (s *Session) Logout() {
	s.user = nil
	s.authenticated = false
	if err := s.store.ClearToken(); err != nil {
		s.log.Error().Err(err).Msg("clearing credential on logout")
	}
	s.bus.PublishLogout()
}

// User returns the current identity, nil when anonymous.
func (s *Session) User() *domain.User {
	return s.user
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	return s.authenticated
}

// IsAdmin reports whether the current user holds the admin role.
func (s *Session) IsAdmin() bool {
	return s.user != nil && s.user.Role == domain.RoleAdmin
}

// IsActive reports whether the current user's account status is active.
func (s *Session) IsActive() bool {
	return s.user != nil && s.user.Status == domain.StatusActive
}

// HasAccess reports whether the session satisfies the required role.
func (s *Session) HasAccess(requiredRole string) bool {
	if !s.authenticated {
		return false
	}
	if requiredRole == domain.RoleAdmin {
		return s.IsAdmin()
	}
	return true
}

// CheckSubscription reports whether subscription-gated features are
// reachable right now.
func (s *Session) CheckSubscription() bool {
	if s.user == nil {
		return false
	}
	return s.user.HasActiveSubscription(s.now())
}
