// Package view defines the activation contract between the router and the
// per-route dashboard views, plus the terminal surface they render into.
package view

import "context"

// View is the unit activated for one route. Render must have issued a first
// paint (content, or its own error message) by the time it returns; the view
// owns any further data fetching and re-rendering after that.
type View interface {
	Render(ctx context.Context, h *Handle) error
}

// Factory lazily constructs a route's view. The router invokes a factory at
// most once per application lifetime; a nil view or an error is a load
// failure reported by the router.
type Factory func() (View, error)

// Func adapts a plain function to the View interface.
type Func func(ctx context.Context, h *Handle) error

func (f Func) Render(ctx context.Context, h *Handle) error {
	return f(ctx, h)
}
