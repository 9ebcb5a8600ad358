package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/cmdutil"
	"github.com/novem-code/novem-cli/internal/listing"
	"github.com/novem-code/novem-cli/internal/novem"
	"github.com/novem-code/novem-cli/internal/output"
	"github.com/novem-code/novem-cli/internal/table"
)

// newVisCmd builds the command tree shared by plots and mails.
func newVisCmd(kind novem.VisKind) *cobra.Command {
	name := string(kind)
	cmd := &cobra.Command{
		Use:     name,
		Aliases: []string{kind.Fragment()},
		Short:   fmt.Sprintf("Manage novem %s", kind.Fragment()),
		Long: fmt.Sprintf(`Create, inspect and share novem %[1]s.

Every %[2]s is a tree of text resources addressed by path, for example
'config/type' or 'data'. Use read and write to work with individual paths.

Examples:
  novem %[2]s list --filter sales
  novem %[2]s create revenue --type bar
  novem %[2]s write revenue data @revenue.csv
  novem %[2]s show revenue`, kind.Fragment(), name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := newVisListCmd(kind)
			list.SetContext(cmd.Context())
			return list.RunE(list, args)
		},
	}

	cmd.AddCommand(newVisListCmd(kind))
	cmd.AddCommand(newVisCreateCmd(kind))
	cmd.AddCommand(newVisDeleteCmd(kind))
	cmd.AddCommand(newVisReadCmd(kind))
	cmd.AddCommand(newVisWriteCmd(kind))
	cmd.AddCommand(newVisEditCmd(kind))
	cmd.AddCommand(newVisShowCmd(kind))
	cmd.AddCommand(newShareCmd(kind))
	if kind == novem.KindMail {
		cmd.AddCommand(newMailStatusCmd("send", "sending", "Send a mail to its recipients"))
		cmd.AddCommand(newMailStatusCmd("test", "testing", "Send a test mail to yourself"))
	}

	return cmd
}

func newVisListCmd(kind novem.VisKind) *cobra.Command {
	var q listing.VisQuery
	var names bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", kind.Fragment()),
		Long: fmt.Sprintf(`List your %[1]s, or those of another user or group.

--filter is a case-insensitive regular expression matched against the id,
name and type. It matches anywhere unless anchored with ^ or $.

Examples:
  novem %[2]s list
  novem %[2]s list --filter 'rev.*q3'
  novem %[2]s list --user alice --names
  novem %[2]s list --org acme --group analysts`, kind.Fragment(), string(kind)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			username := q.User
			if username == "" {
				if username, err = s.username(); err != nil {
					return err
				}
			}
			records, err := listing.LoadVis(ctx, s.client, kind, username, q)
			if err != nil {
				return err
			}
			return printListing(ctx, records, listing.VisColumns(kind), "id", names)
		},
	}

	cmd.Flags().StringVarP(&q.Filter, "filter", "f", "", "Only show entries whose id, name or type match this pattern")
	cmd.Flags().BoolVarP(&names, "names", "n", false, "Print ids only, one per line")
	cmd.Flags().StringVarP(&q.User, "user", "u", "", "List another user's "+kind.Fragment())
	cmd.Flags().StringVarP(&q.Group, "group", "g", "", "List a user or organisation group ('@user~group', '+org~group')")
	cmd.Flags().StringVar(&q.Org, "org", "", "Organisation owning --group")

	return cmd
}

func newVisCreateCmd(kind novem.VisKind) *cobra.Command {
	var visType string

	cmd := &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"new"},
		Short:   fmt.Sprintf("Create a %s", kind),
		Args:    namedArgs(1, 1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			name := args[0]
			if err := s.client.Create(ctx, novem.VisPath(kind, name)); err != nil {
				return fmt.Errorf("failed to create %s %q: %w", kind, name, err)
			}
			if visType != "" {
				if err := s.client.Write(ctx, novem.VisPath(kind, name, "config/type"), visType); err != nil {
					return fmt.Errorf("failed to set type of %s %q: %w", kind, name, err)
				}
			}
			success(ctx, "%s %s created", kind.Title(), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&visType, "type", "t", "", "Visualization type written to config/type (e.g. bar, line)")
	return cmd
}

func newVisDeleteCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", kind),
		Args:    namedArgs(1, 1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			name := args[0]
			if err := s.client.Delete(ctx, novem.VisPath(kind, name)); err != nil {
				return wrapNotFound(err, string(kind), name)
			}
			success(ctx, "%s %s deleted", kind.Title(), name)
			return nil
		},
	}
}

func newVisReadCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:     "read <name> <path>",
		Aliases: []string{"get", "cat"},
		Short:   fmt.Sprintf("Print the content stored at a path of a %s", kind),
		Long: fmt.Sprintf(`Print the content stored at a path of a %[1]s.

Examples:
  novem %[1]s read revenue config/type
  novem %[1]s read revenue data > revenue.csv`, kind),
		Args: namedArgs(2, 2, "name", argPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			value, err := s.client.Read(ctx, novem.VisPath(kind, args[0], args[1]))
			if err != nil {
				return wrapNotFound(err, string(kind), args[0]+"/"+strings.Trim(args[1], "/"))
			}
			return printValue(ctx, value)
		},
	}
}

func newVisWriteCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:     "write <name> <path> [value|@file|-]",
		Aliases: []string{"set", "put"},
		Short:   fmt.Sprintf("Write content to a path of a %s", kind),
		Long: fmt.Sprintf(`Write content to a path of a %[1]s.

The value is taken literally. '@file' reads a file (~ is expanded) and '-'
or a missing value reads standard input.

Examples:
  novem %[1]s write revenue config/type bar
  novem %[1]s write revenue data @~/reports/revenue.csv
  cat revenue.csv | novem %[1]s write revenue data`, kind),
		Args: namedArgs(2, 3, "name", argPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver := cmdutil.NewInputResolver(stdinFromContext(ctx))
			var raw string
			if len(args) == 3 {
				raw = args[2]
			}
			value, err := resolver.Resolve(raw, len(args) == 3)
			if err != nil {
				return err
			}

			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			path := novem.VisPath(kind, args[0], args[1])
			if err := s.client.Write(ctx, path, value); err != nil {
				return wrapNotFound(err, string(kind), args[0])
			}
			success(ctx, "Wrote %d bytes to %s", len(value), path)
			return nil
		},
	}
}

func newVisEditCmd(kind novem.VisKind) *cobra.Command {
	var editorCmd string

	cmd := &cobra.Command{
		Use:   "edit <name> <path>",
		Short: fmt.Sprintf("Edit a path of a %s in your editor", kind),
		Long: fmt.Sprintf(`Open the content at a path of a %[1]s in $VISUAL or $EDITOR.

The content is written back only when it changed.

Example:
  novem %[1]s edit revenue config/caption`, kind),
		Args: namedArgs(2, 2, "name", argPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			path := novem.VisPath(kind, args[0], args[1])
			current, err := s.client.Read(ctx, path)
			if err != nil {
				return wrapNotFound(err, string(kind), args[0])
			}

			editor := &cmdutil.Editor{
				Command: editorCmd,
				Stdin:   stdinFromContext(ctx),
				Stdout:  stderrFromContext(ctx),
				Stderr:  stderrFromContext(ctx),
			}
			edited, err := editor.Edit(ctx, args[1], current)
			if err != nil {
				return err
			}
			if edited == current {
				success(ctx, "No changes to %s", path)
				return nil
			}
			if err := s.client.Write(ctx, path, edited); err != nil {
				return err
			}
			success(ctx, "Updated %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&editorCmd, "editor", "", "Editor command (defaults to $VISUAL, $EDITOR, then vi)")
	return cmd
}

func newVisShowCmd(kind novem.VisKind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: fmt.Sprintf("Render a %s in the terminal", kind),
		Args:  namedArgs(1, 1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			render, err := s.client.Read(ctx, novem.VisPath(kind, args[0], "files", string(kind)+".ansi"))
			if err != nil {
				return wrapNotFound(err, string(kind), args[0])
			}
			return writeText(stdoutFromContext(ctx), render)
		},
	}
}

func newMailStatusCmd(use, status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  namedArgs(1, 1, "name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := sessionFromContext(ctx)
			if err != nil {
				return err
			}
			if err := s.client.Write(ctx, novem.VisPath(novem.KindMail, args[0], "status"), status); err != nil {
				return wrapNotFound(err, string(novem.KindMail), args[0])
			}
			success(ctx, "Mail %s is %s", args[0], status)
			return nil
		},
	}
}

// printListing writes records as a table (or names) in text mode and as
// structured data otherwise.
func printListing(ctx context.Context, records []table.Record, cols []table.Column, nameKey string, names bool) error {
	if output.FormatFromContext(ctx).Structured() {
		if names {
			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec[nameKey])
			}
			return printerForContext(ctx).Print(ctx, ids)
		}
		return printerForContext(ctx).Print(ctx, records)
	}
	return listing.Print(stdoutFromContext(ctx), records, cols, nameKey, listing.Options{
		Names: names,
		Table: tableOptions(ctx),
	})
}

// printValue prints a raw resource body, or wraps it for structured output.
func printValue(ctx context.Context, value string) error {
	if output.FormatFromContext(ctx).Structured() {
		return printerForContext(ctx).Print(ctx, value)
	}
	return writeText(stdoutFromContext(ctx), value)
}

func writeText(w io.Writer, s string) error {
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
