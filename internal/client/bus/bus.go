// Package bus is the in-process notification channel shared by the dashboard
// client components. Each notification kind has its own typed subscriber list
// so payload shapes are known at compile time.
package bus

import (
	"sync"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// LoginHandler receives the identity of the freshly authenticated user.
type LoginHandler func(user *domain.User)

// LogoutHandler is invoked when the session ends, voluntarily or forced.
type LogoutHandler func()

// RouteChangeHandler receives the name of the newly activated route.
type RouteChangeHandler func(route string)

// Bus dispatches login, logout and route-change notifications synchronously.
// Subscriber invocation order across independent subscribers is unspecified.
type Bus struct {
	mu       sync.RWMutex
	onLogin  []LoginHandler
	onLogout []LogoutHandler
	onRoute  []RouteChangeHandler
}

func New() *Bus {
	return &Bus{}
}

// SubscribeLogin registers a handler for login notifications.
func (b *Bus) SubscribeLogin(h LoginHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onLogin = append(b.onLogin, h)
}

// SubscribeLogout registers a handler for logout notifications.
func (b *Bus) SubscribeLogout(h LogoutHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onLogout = append(b.onLogout, h)
}

// SubscribeRouteChange registers a handler for route-change notifications.
func (b *Bus) SubscribeRouteChange(h RouteChangeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRoute = append(b.onRoute, h)
}

// PublishLogin notifies all login subscribers with the user identity.
func (b *Bus) PublishLogin(user *domain.User) {
	b.mu.RLock()
	handlers := append([]LoginHandler{}, b.onLogin...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(user)
	}
}

// PublishLogout notifies all logout subscribers.
func (b *Bus) PublishLogout() {
	b.mu.RLock()
	handlers := append([]LogoutHandler{}, b.onLogout...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}

// PublishRouteChange notifies all route-change subscribers.
func (b *Bus) PublishRouteChange(route string) {
	b.mu.RLock()
	handlers := append([]RouteChangeHandler{}, b.onRoute...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(route)
	}
}
