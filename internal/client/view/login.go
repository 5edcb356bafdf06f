package view

import (
	"context"
	"strings"
)

// Login is the only public view. The actual credential entry happens at the
// shell prompt; the view explains how.
type Login struct{}

func NewLogin() *Login {
	return &Login{}
}

func (v *Login) Render(_ context.Context, h *Handle) error {
	var b strings.Builder
	heading(&b, "CryptoDSS — Sign In")
	b.WriteString("You are not signed in.\n\n")
	b.WriteString("  login <username> <password>   sign in\n")
	b.WriteString("  forgot <email>                request a password reset\n")
	b.WriteString("  quit                          exit\n")
	h.SetContent(b.String())
	return nil
}
