package cmd

import (
	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/listing"
	"github.com/novem-code/novem-cli/internal/novem"
)

func newInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invite",
		Aliases: []string{"invites", "inv"},
		Short:   "Manage pending invitations",
		Long: `List, accept and reject invitations to organisations and groups.

Invitation ids look like '+org' (organisation), '+org~group'
(organisation group) or '@user~group' (user group).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := newInviteListCmd()
			list.SetContext(cmd.Context())
			return list.RunE(list, args)
		},
	}

	cmd.AddCommand(newInviteListCmd())
	cmd.AddCommand(newInviteAnswerCmd("accept", "yes", "Accept an invitation"))
	cmd.AddCommand(newInviteAnswerCmd("reject", "no", "Reject an invitation"))
	return cmd
}

func newInviteListCmd() *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending invitations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			records, err := listing.LoadInvites(ctx, s.client)
			if err != nil {
				return err
			}
			return printListing(ctx, records, listing.InviteColumns(), "name", names)
		},
	}

	cmd.Flags().BoolVarP(&names, "names", "n", false, "Print invitation ids only, one per line")
	return cmd
}

func newInviteAnswerCmd(use, answer, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  namedArgs(1, 1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			if err := s.client.Write(ctx, novem.InvitePath(args[0], "accept"), answer); err != nil {
				return wrapNotFound(err, "invite", args[0])
			}
			success(ctx, "Invitation %s %sed", args[0], use)
			return nil
		},
	}
}
