package novem

import (
	"fmt"
	"strings"
)

// VisKind is the kind of a visualization resource.
type VisKind string

const (
	KindPlot VisKind = "plot"
	KindMail VisKind = "mail"
)

// ParseVisKind converts a user-supplied kind name.
func ParseVisKind(s string) (VisKind, error) {
	switch VisKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPlot, "plots", "p":
		return KindPlot, nil
	case KindMail, "mails", "m":
		return KindMail, nil
	default:
		return "", fmt.Errorf("unknown visualization kind %q (expected plot or mail)", s)
	}
}

// Title is the capitalized kind name used in messages and headers.
func (k VisKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Fragment is the plural path segment below vis/.
func (k VisKind) Fragment() string {
	return string(k) + "s"
}

// VisPath addresses a named visualization, optionally followed by a sub path.
func VisPath(kind VisKind, name string, sub ...string) string {
	p := "vis/" + kind.Fragment() + "/" + name
	for _, s := range sub {
		s = strings.Trim(s, "/")
		if s != "" {
			p += "/" + s
		}
	}
	return p
}

// InvitesPath lists pending invitations for the authenticated user.
const InvitesPath = "admin/invites/"

// InvitePath addresses one invitation, optionally followed by a sub path.
func InvitePath(id string, sub ...string) string {
	p := "admin/invites/" + id
	for _, s := range sub {
		s = strings.Trim(s, "/")
		if s != "" {
			p += "/" + s
		}
	}
	return p
}
