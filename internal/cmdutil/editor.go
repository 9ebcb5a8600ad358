package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// DefaultEditor is used when neither VISUAL nor EDITOR is set.
const DefaultEditor = "vi"

// EditorCommand returns the user's preferred editor command line.
func EditorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return DefaultEditor
}

// Editor opens content in an external editor and returns the edited text.
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Edit writes content to a temporary file named after hint, runs the editor
// on it and returns the file's new contents.
func (e *Editor) Edit(ctx context.Context, hint, content string) (string, error) {
	command := e.Command
	if command == "" {
		command = EditorCommand()
	}
	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		return "", fmt.Errorf("invalid editor command %q", command)
	}

	f, err := os.CreateTemp("", "novem-*-"+sanitizeHint(hint))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec // user-chosen editor
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", args[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(data), nil
}

func sanitizeHint(hint string) string {
	base := filepath.Base(strings.Trim(hint, "/"))
	if base == "." || base == "/" || base == "" {
		return "edit"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '*' {
			return '_'
		}
		return r
	}, base)
}
