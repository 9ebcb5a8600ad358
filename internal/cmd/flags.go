package cmd

import "github.com/spf13/pflag"

// flagAlias registers a hidden flag that shares the value of name,
// e.g. --jq for --query.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Usage:       f.Usage,
		Value:       f.Value,
		DefValue:    f.DefValue,
		NoOptDefVal: f.NoOptDefVal,
		Hidden:      true,
	})
}

// commandFlagChanged reports whether any of names was set on the command line.
func commandFlagChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if f := fs.Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}
