package view

import (
	"context"
	"strings"

	"github.com/refi-rr/crypto-dss/internal/client/gateway"
)

// Members is the admin member-management table. Mutations (add, update,
// delete) run through shell commands; the view lists current members.
type Members struct {
	gw *gateway.Gateway
}

func NewMembers(gw *gateway.Gateway) *Members {
	return &Members{gw: gw}
}

func (v *Members) Render(ctx context.Context, h *Handle) error {
	users, err := v.gw.Users(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	heading(&b, "Member Management")

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID,
			u.Username,
			u.Email,
			u.Role,
			u.Status,
			formatDate(u.SubscriptionExpiredAt),
		})
	}
	renderTable(&b, []string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS", "SUBSCRIPTION"}, rows)

	b.WriteString("\n  member add <username> <email> <password> [days]\n")
	b.WriteString("  member set <id> role|status|email|days <value>\n")
	b.WriteString("  member rm <id>\n")

	h.SetContent(b.String())
	return nil
}
