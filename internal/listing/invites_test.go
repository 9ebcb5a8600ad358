package listing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novem-code/novem-cli/internal/table"
)

func TestParseInvite(t *testing.T) {
	tests := []struct {
		name string
		want Invite
	}{
		{"+acme~admins", Invite{Type: InviteOrgGroup, OrgUser: "+acme", Group: "admins"}},
		{"@alice~team", Invite{Type: InviteUserGroup, OrgUser: "@alice", Group: "team"}},
		{"+acme", Invite{Type: InviteOrg, OrgUser: "+acme"}},
		{"@alice", Invite{Type: InviteUnknown, OrgUser: "@alice"}},
		{"plain", Invite{Type: InviteUnknown, OrgUser: "plain"}},
		{"", Invite{Type: InviteUnknown}},
		{"+acme~a~b", Invite{Type: InviteOrgGroup, OrgUser: "+acme", Group: "a~b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInvite(tt.name))
		})
	}
}

const invitesBody = `[
  {"name":"@alice~team","created_on":"Wed, 02 Oct 2024 10:15:00 GMT"},
  {"name":"+acme~admins","created_on":"Tue, 01 Oct 2024 08:00:00 GMT"},
  {"name":"+acme","created_on":"Mon, 30 Sep 2024 12:30:00 GMT"}
]`

func TestLoadInvites(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{"admin/invites/": invitesBody}}

	records, err := LoadInvites(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "+acme", records[0]["id"])
	assert.Equal(t, "organisation", records[0]["type"])
	assert.Equal(t, "", records[0]["group"])
	assert.Equal(t, "2024-09-30 12:30", records[0]["created"])

	assert.Equal(t, "+acme~admins", records[1]["id"])
	assert.Equal(t, "admins", records[1]["group"])

	assert.Equal(t, "@alice~team", records[2]["id"])
	assert.Equal(t, "@alice", records[2]["org_user"])
	assert.Equal(t, "user group", records[2]["type"])
}

func TestListInvites(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{"admin/invites/": invitesBody}}

	var buf bytes.Buffer
	require.NoError(t, ListInvites(context.Background(), &buf, src, Options{Table: table.Options{Width: 200}}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Invitation ID  Type                Group   Org / User  Created", lines[0])
	assert.Equal(t, "+acme          organisation                +acme       2024-09-30 12:30", lines[1])
	assert.Equal(t, "+acme~admins   organisation group  admins  +acme       2024-10-01 08:00", lines[2])
	assert.Equal(t, "@alice~team    user group          team    @alice      2024-10-02 10:15", lines[3])
}

func TestListInvites_Names(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{"admin/invites/": invitesBody}}

	var buf bytes.Buffer
	require.NoError(t, ListInvites(context.Background(), &buf, src, Options{Names: true}))
	assert.Equal(t, "+acme\n+acme~admins\n@alice~team\n", buf.String())
}
