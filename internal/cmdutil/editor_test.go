package cmdutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := EditorCommand(); got != DefaultEditor {
		t.Errorf("expected default editor, got %q", got)
	}

	t.Setenv("EDITOR", "nano")
	if got := EditorCommand(); got != "nano" {
		t.Errorf("expected EDITOR, got %q", got)
	}

	t.Setenv("VISUAL", "code --wait")
	if got := EditorCommand(); got != "code --wait" {
		t.Errorf("expected VISUAL to win, got %q", got)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEditor_Edit(t *testing.T) {
	script := writeScript(t, `printf 'edited' > "$1"`)

	e := &Editor{Command: script}
	got, err := e.Edit(context.Background(), "config/type", "original")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got != "edited" {
		t.Errorf("expected edited content, got %q", got)
	}
}

func TestEditor_SeesOriginalContent(t *testing.T) {
	script := writeScript(t, `tr a-z A-Z < "$1" > "$1.tmp" && mv "$1.tmp" "$1"`)

	e := &Editor{Command: script}
	got, err := e.Edit(context.Background(), "data", "abc")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got != "ABC" {
		t.Errorf("expected ABC, got %q", got)
	}
}

func TestEditor_Failure(t *testing.T) {
	script := writeScript(t, "exit 3")

	e := &Editor{Command: script}
	if _, err := e.Edit(context.Background(), "data", "abc"); err == nil {
		t.Error("expected error when editor exits non-zero")
	}
}

func TestSanitizeHint(t *testing.T) {
	tests := map[string]string{
		"":            "edit",
		"/":           "edit",
		"config/type": "type",
		"data":        "data",
		"a*b":         "a_b",
	}
	for in, want := range tests {
		if got := sanitizeHint(in); got != want {
			t.Errorf("sanitizeHint(%q) = %q, want %q", in, got, want)
		}
	}
}
