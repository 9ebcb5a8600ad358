package listing

import (
	"context"
	"io"
	"strings"

	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/table"
)

// Invitation types.
const (
	InviteOrgGroup  = "organisation group"
	InviteUserGroup = "user group"
	InviteOrg       = "organisation"
	InviteUnknown   = "unknown"
)

// Invite is the decomposed form of an invitation identifier.
type Invite struct {
	Type    string
	OrgUser string
	Group   string
}

// ParseInvite splits identifiers of the form +org~group, @user~group and +org.
// Anything else is of unknown type and keeps the raw name as OrgUser.
func ParseInvite(name string) Invite {
	switch {
	case strings.HasPrefix(name, "+") && strings.Contains(name, "~"):
		org, group, _ := strings.Cut(name[1:], "~")
		return Invite{Type: InviteOrgGroup, OrgUser: "+" + org, Group: group}
	case strings.HasPrefix(name, "@") && strings.Contains(name, "~"):
		user, group, _ := strings.Cut(name[1:], "~")
		return Invite{Type: InviteUserGroup, OrgUser: "@" + user, Group: group}
	case strings.HasPrefix(name, "+"):
		return Invite{Type: InviteOrg, OrgUser: name}
	default:
		return Invite{Type: InviteUnknown, OrgUser: name}
	}
}

// LoadInvites fetches pending invitations sorted by identifier and adds the
// decomposed id, type, group and org_user fields.
func LoadInvites(ctx context.Context, src Source) ([]table.Record, error) {
	records, err := Fetch(ctx, src, novem.InvitesPath)
	if err != nil {
		return nil, err
	}
	SortByKey(records, "name")

	for _, rec := range records {
		name := rec["name"]
		inv := ParseInvite(name)
		rec["id"] = name
		rec["type"] = inv.Type
		rec["group"] = inv.Group
		rec["org_user"] = inv.OrgUser
		if created, ok := rec.Get("created_on"); ok {
			rec["created"] = created
		}
	}
	NormalizeDates(records, "created")
	return records, nil
}

// ListInvites prints the pending invitations to w.
func ListInvites(ctx context.Context, w io.Writer, src Source, opts Options) error {
	records, err := LoadInvites(ctx, src)
	if err != nil {
		return err
	}
	return Print(w, records, InviteColumns(), "name", opts)
}
