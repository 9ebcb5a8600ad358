// Package output renders command results as text, JSON or YAML.
//
// The format, jq query and JSONPath expression are attached to the command
// context once in the root PersistentPreRunE:
//
//	ctx = output.WithFormat(ctx, format)
//	ctx = output.WithQuery(ctx, query)
//
// and read back by the Printer:
//
//	printer := output.NewPrinter(stdout, output.FormatFromContext(ctx))
//	return printer.Print(ctx, data)
//
// Listings in text format bypass the Printer and are drawn by the table
// package instead.
package output
