package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/listing"
	"github.com/novem-code/novem-cli/internal/novem"
)

func newShareCmd(kind novem.VisKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "share",
		Aliases: []string{"shares"},
		Short:   fmt.Sprintf("Manage who a %s is shared with", kind),
		Long: fmt.Sprintf(`Manage who a %[1]s is shared with.

Share targets are 'public', a user group '@user~group' or an organisation
group '+org~group'.

Examples:
  novem %[1]s share list revenue
  novem %[1]s share add revenue public
  novem %[1]s share remove revenue @alice~team`, kind),
	}

	cmd.AddCommand(newShareListCmd(kind))
	cmd.AddCommand(newShareAddCmd(kind))
	cmd.AddCommand(newShareRemoveCmd(kind))
	return cmd
}

func newShareListCmd(kind novem.VisKind) *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:     "list <name>",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List the shares of a %s", kind),
		Args:    namedArgs(1, 1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			records, err := listing.LoadShares(ctx, s.client, kind, args[0])
			if err != nil {
				return err
			}
			return printListing(ctx, records, listing.ShareColumns(), "name", names)
		},
	}

	cmd.Flags().BoolVarP(&names, "names", "n", false, "Print share targets only, one per line")
	return cmd
}

func newShareAddCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <target>",
		Short: fmt.Sprintf("Share a %s", kind),
		Args:  namedArgs(2, 2, "name", "target"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			if err := s.client.Create(ctx, novem.VisPath(kind, args[0], "shared", args[1])); err != nil {
				return wrapNotFound(err, string(kind), args[0])
			}
			success(ctx, "%s %s shared with %s", kind.Title(), args[0], args[1])
			return nil
		},
	}
}

func newShareRemoveCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name> <target>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Stop sharing a %s", kind),
		Args:    namedArgs(2, 2, "name", "target"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			if err := s.client.Delete(ctx, novem.VisPath(kind, args[0], "shared", args[1])); err != nil {
				return wrapNotFound(err, string(kind), args[0])
			}
			success(ctx, "%s %s no longer shared with %s", kind.Title(), args[0], args[1])
			return nil
		},
	}
}
