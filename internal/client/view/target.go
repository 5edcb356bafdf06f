package view

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Target is the single rendering surface of the dashboard. Writes go through
// generation-bound handles: each navigation takes a fresh handle, and writes
// from a superseded handle are silently discarded so a slow view cannot
// overwrite a newer one.
type Target struct {
	mu  sync.Mutex
	w   io.Writer
	gen atomic.Uint64
}

// NewTarget wraps the given writer, typically stdout.
func NewTarget(w io.Writer) *Target {
	return &Target{w: w}
}

// NextHandle invalidates all previously issued handles and returns a fresh
// one bound to the new generation.
func (t *Target) NextHandle() *Handle {
	return &Handle{t: t, gen: t.gen.Add(1)}
}

func (t *Target) write(gen uint64, s string) {
	if t.gen.Load() != gen {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, s)
}

// Handle is a generation-bound write capability on the Target.
type Handle struct {
	t   *Target
	gen uint64
}

// Stale reports whether a newer navigation has superseded this handle.
func (h *Handle) Stale() bool {
	return h.t.gen.Load() != h.gen
}

// SetContent replaces the surface content.
func (h *Handle) SetContent(s string) {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	h.t.write(h.gen, "\n"+s)
}

// SetLoading paints a transient loading message.
func (h *Handle) SetLoading(msg string) {
	h.t.write(h.gen, "\n"+msg+"\n")
}

// SetError paints a visible inline error placeholder. The surface is never
// left blank on a failure path.
func (h *Handle) SetError(format string, args ...any) {
	h.t.write(h.gen, fmt.Sprintf("\n[error] "+format+"\n", args...))
}
