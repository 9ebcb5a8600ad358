package cmd

import (
	"github.com/spf13/cobra"

	"github.com/novem-code/novem-cli/internal/validate"
)

const argPath = "path"

// namedArgs accepts between min and max positional arguments and validates
// the leading ones by role. The "path" role is a resource path below a
// visualization; every other role is a single path segment.
func namedArgs(min, max int, roles ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(min, max)(cmd, args); err != nil {
			return err
		}
		for i, role := range roles {
			if i >= len(args) {
				break
			}
			var err error
			if role == argPath {
				err = validate.ResourcePath(role, args[i])
			} else {
				err = validate.Name(role, args[i])
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}
