// Package iocontext carries the process streams on the context so commands
// can be exercised against buffers in tests.
package iocontext

import (
	"context"
	"io"
)

type ctxKey int

const (
	stdoutKey ctxKey = iota
	stderrKey
	stdinKey
)

// WithIO injects stdout and stderr writers into context.
func WithIO(ctx context.Context, stdout, stderr io.Writer) context.Context {
	ctx = context.WithValue(ctx, stdoutKey, stdout)
	ctx = context.WithValue(ctx, stderrKey, stderr)
	return ctx
}

// WithStdin injects the reader used for "-" and value-less writes.
func WithStdin(ctx context.Context, stdin io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey, stdin)
}

// StdoutOrDefault returns stdout from context or the provided default.
func StdoutOrDefault(ctx context.Context, def io.Writer) io.Writer {
	if w, ok := ctx.Value(stdoutKey).(io.Writer); ok && w != nil {
		return w
	}
	return def
}

// StderrOrDefault returns stderr from context or the provided default.
func StderrOrDefault(ctx context.Context, def io.Writer) io.Writer {
	if w, ok := ctx.Value(stderrKey).(io.Writer); ok && w != nil {
		return w
	}
	return def
}

// StdinOrDefault returns stdin from context or the provided default.
func StdinOrDefault(ctx context.Context, def io.Reader) io.Reader {
	if r, ok := ctx.Value(stdinKey).(io.Reader); ok && r != nil {
		return r
	}
	return def
}
