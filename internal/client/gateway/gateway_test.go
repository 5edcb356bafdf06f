package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	"github.com/refi-rr/crypto-dss/internal/client/store"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *store.Store, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := store.New(filepath.Join(t.TempDir(), "state.json"))
	b := bus.New()
	gw := New(srv.URL, st, b, zerolog.Nop(), srv.Client())
	return gw, st, b
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotType string
	gw, st, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))

	if err := st.SetToken("tok-1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := gw.Request(context.Background(), http.MethodGet, "/users/me", nil, nil); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if gotType != "application/json" {
		t.Fatalf("Content-Type = %q", gotType)
	}
}

func TestRequest_SkipAuthOmitsHeader(t *testing.T) {
	var gotAuth string
	gw, st, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	_ = st.SetToken("tok-1")
	if err := gw.Request(context.Background(), http.MethodPost, "/auth/login", nil, nil, SkipAuth()); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestRequest_UnauthorizedForcesLogout(t *testing.T) {
	gw, st, b := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_ = st.SetToken("expired")
	logouts := 0
	b.SubscribeLogout(func() { logouts++ })

	err := gw.Request(context.Background(), http.MethodGet, "/users/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, ok := st.Token(); ok {
		t.Fatalf("credential not cleared after 401")
	}
	if logouts != 1 {
		t.Fatalf("logout broadcast %d times, want 1", logouts)
	}
}

func TestRequest_ServerDetailSurfaced(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"subscription expired"}`))
	}))

	err := gw.Request(context.Background(), http.MethodPost, "/trading/analyze", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Detail != "subscription expired" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestRequest_GenericDetailWhenBodyEmpty(t *testing.T) {
	gw, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := gw.Request(context.Background(), http.MethodGet, "/trading/pairs", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Detail != "request failed" {
		t.Fatalf("Detail = %q, want generic message", apiErr.Detail)
	}
}

func TestRequest_TransportErrorIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	st := store.New(filepath.Join(t.TempDir(), "state.json"))
	gw := New(srv.URL, st, bus.New(), zerolog.Nop(), nil)

	err := gw.Request(context.Background(), http.MethodGet, "/health", nil, nil)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("transport failure classified as API error: %v", err)
	}
}

func TestLogin_StoresReturnedCredential(t *testing.T) {
	gw, st, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"access_token":"new-token","token_type":"bearer","user":{"id":"1","username":"alice","role":"admin","status":"active"}}`))
	}))

	res, err := gw.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User == nil || res.User.Username != "alice" {
		t.Fatalf("user = %+v", res.User)
	}
	if tok, ok := st.Token(); !ok || tok != "new-token" {
		t.Fatalf("stored token = %q, %v", tok, ok)
	}
}
