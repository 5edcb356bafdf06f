// Package router is the client-side navigation state machine. It resolves a
// requested route against the registry and the current session, keeps the
// navigation history, activates the route's view and broadcasts changes.
package router

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/client/bus"
	"github.com/refi-rr/crypto-dss/internal/client/view"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// SessionState is the slice of the auth session the router consults when
// resolving access rules.
type SessionState interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// RouteLogin is the route every unauthenticated protected navigation is
// redirected to.
const RouteLogin = "login"

// Default landing routes after login.
const (
	RouteAdminHome  = "dashboard"
	RouteMemberHome = "trader-insight"
)

var (
	// ErrUnknownRoute marks navigation to a name never registered: a
	// programming error, not a user-facing failure.
	ErrUnknownRoute = errors.New("route not registered")
	// ErrAccessDenied marks an admin-only route requested by a non-admin.
	ErrAccessDenied = errors.New("admin access required")

	errViewNotMounted = errors.New("view not mounted")
)

// Notifier surfaces a blocking user notice outside the rendering target
// (the access-denied case).
type Notifier func(msg string)

// Router resolves and activates routes.
type Router struct {
	registry *Registry
	session  SessionState
	bus      *bus.Bus
	log      zerolog.Logger
	loader   *loader
	notify   Notifier

	target *view.Target

	mu      sync.Mutex
	current string
	history []string
	histPos int
}

// New builds a Router around the given registry and session.
func New(registry *Registry, sess SessionState, b *bus.Bus, log zerolog.Logger, notify Notifier) *Router {
	if notify == nil {
		notify = func(string) {}
	}
	return &Router{
		registry: registry,
		session:  sess,
		bus:      b,
		log:      log,
		loader:   newLoader(),
		notify:   notify,
		histPos:  -1,
	}
}

// Init binds the rendering target and subscribes to session lifecycle
// notifications: login navigates to the role-appropriate default route,
// logout back to the login route.
func (r *Router) Init(target *view.Target) {
	r.target = target

	r.bus.SubscribeLogin(func(user *domain.User) {
		r.NavigateTo(context.Background(), DefaultRoute(user), true)
	})
	r.bus.SubscribeLogout(func() {
		r.NavigateTo(context.Background(), RouteLogin, true)
	})
}

// DefaultRoute returns the landing route for the given identity.
func DefaultRoute(user *domain.User) string {
	if user != nil && user.Role == domain.RoleAdmin {
		return RouteAdminHome
	}
	return RouteMemberHome
}

// Register adds a route descriptor to the registry.
func (r *Router) Register(name string, d Descriptor) {
	r.registry.Register(name, d)
}

// Mount binds a route name to its lazily constructed view.
func (r *Router) Mount(name string, f view.Factory) {
	r.loader.mount(name, f)
}

// CurrentRoute returns the name of the active route, empty before the first
// navigation.
func (r *Router) CurrentRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// NavigateTo resolves routeName and activates its view. When recordHistory
// is true the route is pushed onto the history stack; replayed navigations
// (back/forward) pass false.
//
// The view has painted, or an error placeholder has been painted in its
// place, before the route-change notification fires. A navigation superseded
// by a newer one while its view was loading is discarded silently.
func (r *Router) NavigateTo(ctx context.Context, routeName string, recordHistory bool) error {
	route, ok := r.registry.Lookup(routeName)
	if !ok {
		r.log.Error().Str("route", routeName).Msg("route not registered")
		return ErrUnknownRoute
	}

	if route.RequireAuth && !r.session.IsAuthenticated() {
		return r.NavigateTo(ctx, RouteLogin, recordHistory)
	}

	if route.RequireAdmin && !r.session.IsAdmin() {
		r.notify("Admin access required")
		return ErrAccessDenied
	}

	r.mu.Lock()
	if recordHistory {
		r.history = append(r.history[:r.histPos+1], routeName)
		r.histPos = len(r.history) - 1
	}
	r.current = routeName
	// taken under the lock so handle generations follow navigation order
	handle := r.target.NextHandle()
	r.mu.Unlock()
	r.activate(ctx, routeName, route, handle)

	// a stale navigation has been superseded: the newer one owns the
	// route-change broadcast
	if handle.Stale() {
		return nil
	}
	r.bus.PublishRouteChange(routeName)
	return nil
}

// activate lazily loads and renders the route's view. All failure paths end
// with a visible placeholder in the target, never a blank surface.
func (r *Router) activate(ctx context.Context, name string, route Descriptor, h *view.Handle) {
	v, err := r.loader.load(name)
	if err != nil {
		r.log.Error().Err(err).Str("route", name).Msg("view load failed")
		h.SetError("failed to load %s", route.Title)
		return
	}

	h.SetLoading("Loading " + route.Title + "...")
	if err := v.Render(ctx, h); err != nil {
		r.log.Error().Err(err).Str("route", name).Msg("view render failed")
		h.SetError("error loading %s: %v", route.Title, err)
	}
}

// Back replays the previous history entry without recording a new one.
func (r *Router) Back(ctx context.Context) error {
	r.mu.Lock()
	if r.histPos <= 0 {
		r.mu.Unlock()
		return nil
	}
	r.histPos--
	name := r.history[r.histPos]
	r.mu.Unlock()
	return r.NavigateTo(ctx, name, false)
}

// Forward replays the next history entry without recording a new one.
func (r *Router) Forward(ctx context.Context) error {
	r.mu.Lock()
	if r.histPos+1 >= len(r.history) {
		r.mu.Unlock()
		return nil
	}
	r.histPos++
	name := r.history[r.histPos]
	r.mu.Unlock()
	return r.NavigateTo(ctx, name, false)
}
