package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	"github.com/refi-rr/crypto-dss/internal/client/gateway"
	"github.com/refi-rr/crypto-dss/internal/client/store"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

func newTestSession(t *testing.T, handler http.Handler) (*Session, *store.Store, *bus.Bus) {
	t.Helper()

	var srv *httptest.Server
	if handler != nil {
		srv = httptest.NewServer(handler)
		t.Cleanup(srv.Close)
	} else {
		srv = httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)
	}

	st := store.New(filepath.Join(t.TempDir(), "state.json"))
	b := bus.New()
	gw := gateway.New(srv.URL, st, b, zerolog.Nop(), srv.Client())
	return New(gw, st, b, zerolog.Nop()), st, b
}

func userJSON(role, status, expiredAt string) string {
	body := `{"id":"1","username":"alice","email":"alice@x.dev","role":"` + role + `","status":"` + status + `"`
	if expiredAt != "" {
		body += `,"subscription_expired_at":"` + expiredAt + `"`
	}
	return body + `}`
}

func TestInit_NoCredentialStaysAnonymous(t *testing.T) {
	s, _, _ := newTestSession(t, nil)

	if s.Init(context.Background()) {
		t.Fatalf("Init without credential should return false")
	}
	if s.IsAuthenticated() {
		t.Fatalf("session should stay anonymous")
	}
}

func TestInit_ValidCredentialAuthenticates(t *testing.T) {
	s, st, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userJSON("member", "active", "")))
	}))
	_ = st.SetToken("stored")

	if !s.Init(context.Background()) {
		t.Fatalf("Init with valid credential should return true")
	}
	if !s.IsAuthenticated() || s.User() == nil || s.User().Username != "alice" {
		t.Fatalf("session not authenticated: %+v", s.User())
	}
}

func TestInit_RejectedCredentialLogsOut(t *testing.T) {
	s, st, b := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_ = st.SetToken("expired")

	logouts := 0
	b.SubscribeLogout(func() { logouts++ })

	if s.Init(context.Background()) {
		t.Fatalf("Init with rejected credential should return false")
	}
	if s.IsAuthenticated() {
		t.Fatalf("session should be anonymous")
	}
	if _, ok := st.Token(); ok {
		t.Fatalf("credential should be cleared")
	}
	// once from the gateway's forced logout, once from the session's own
	if logouts == 0 {
		t.Fatalf("logout should have been broadcast")
	}
}

func TestLogin_BroadcastsOnSuccessOnly(t *testing.T) {
	fail := true
	s, _, b := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"access_token":"t","token_type":"bearer","user":` + userJSON("member", "active", "") + `}`))
	}))

	logins := 0
	b.SubscribeLogin(func(u *domain.User) { logins++ })

	if _, err := s.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatalf("expected login failure")
	}
	if logins != 0 {
		t.Fatalf("failed login must not broadcast")
	}
	if s.IsAuthenticated() {
		t.Fatalf("failed login must stay anonymous")
	}

	fail = false
	if _, err := s.Login(context.Background(), "alice", "right"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logins != 1 {
		t.Fatalf("login broadcast %d times, want 1", logins)
	}
}

func TestLogout_IdempotentSideEffects(t *testing.T) {
	s, st, b := newTestSession(t, nil)
	_ = st.SetToken("tok")

	logouts := 0
	b.SubscribeLogout(func() { logouts++ })

	s.Logout()
	s.Logout() // already anonymous

	if logouts != 2 {
		t.Fatalf("logout broadcast %d times, want 2 (always broadcasts)", logouts)
	}
	if _, ok := st.Token(); ok {
		t.Fatalf("credential should be cleared")
	}
}

func TestForcedLogoutResetsSession(t *testing.T) {
	authed := true
	s, st, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(userJSON("member", "active", "")))
	}))
	_ = st.SetToken("tok")

	if !s.Init(context.Background()) {
		t.Fatalf("Init should authenticate")
	}

	// next gateway call hits a 401 and force-logs-out via the bus
	authed = false
	if _, err := s.gw.CurrentUser(context.Background()); err == nil {
		t.Fatalf("expected unauthorized")
	}

	if s.IsAuthenticated() || s.User() != nil {
		t.Fatalf("forced logout did not reset session")
	}
}

func TestRoleDerivations(t *testing.T) {
	s, _, _ := newTestSession(t, nil)

	if s.HasAccess(domain.RoleMember) {
		t.Fatalf("anonymous session must have no access")
	}

	s.user = &domain.User{Role: domain.RoleMember, Status: domain.StatusActive}
	s.authenticated = true

	if s.IsAdmin() {
		t.Fatalf("member reported as admin")
	}
	if !s.IsActive() {
		t.Fatalf("active member reported inactive")
	}
	if !s.HasAccess(domain.RoleMember) || s.HasAccess(domain.RoleAdmin) {
		t.Fatalf("member access derivation wrong")
	}

	s.user.Role = domain.RoleAdmin
	if !s.HasAccess(domain.RoleAdmin) {
		t.Fatalf("admin should have admin access")
	}
}

func TestCheckSubscription(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	cases := []struct {
		name      string
		role      string
		status    string
		expiredAt *time.Time
		want      bool
	}{
		{"admin always passes", domain.RoleAdmin, domain.StatusInactive, &past, true},
		{"inactive member fails", domain.RoleMember, domain.StatusInactive, nil, false},
		{"no expiry passes", domain.RoleMember, domain.StatusActive, nil, true},
		{"expired one second ago fails", domain.RoleMember, domain.StatusActive, &past, false},
		{"expires one second from now passes", domain.RoleMember, domain.StatusActive, &future, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, nil)
			s.now = func() time.Time { return now }
			s.user = &domain.User{Role: tc.role, Status: tc.status, SubscriptionExpiredAt: tc.expiredAt}
			s.authenticated = true

			if got := s.CheckSubscription(); got != tc.want {
				t.Fatalf("CheckSubscription() = %v, want %v", got, tc.want)
			}
		})
	}
}
