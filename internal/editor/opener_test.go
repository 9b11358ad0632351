package editor_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tallgren/codewalk/internal/editor"
)

// TestCommandUsesEditorEnv verifies $EDITOR wins over everything else.
func TestCommandUsesEditorEnv(t *testing.T) {
	t.Setenv("EDITOR", "myeditor")
	t.Setenv("VISUAL", "othereditor")

	cmd, err := editor.NewOpener().Command("/tmp/f.md")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if got := filepath.Base(cmd.Args[0]); got != "myeditor" {
		t.Errorf("editor: got %q, want %q", got, "myeditor")
	}
	if cmd.Args[len(cmd.Args)-1] != "/tmp/f.md" {
		t.Errorf("last arg: got %q, want the file path", cmd.Args[len(cmd.Args)-1])
	}
}

// TestCommandPreferredWinsOverEnv verifies a configured editor beats the
// environment.
func TestCommandPreferredWinsOverEnv(t *testing.T) {
	t.Setenv("EDITOR", "enveditor")

	o := &editor.Opener{Preferred: "cfgeditor"}
	cmd, err := o.Command("/tmp/f.md")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if got := filepath.Base(cmd.Args[0]); got != "cfgeditor" {
		t.Errorf("editor: got %q, want %q", got, "cfgeditor")
	}
}

// TestCommandFallsBackToVisual verifies $VISUAL is used when $EDITOR is
// unset.
func TestCommandFallsBackToVisual(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "visualeditor")

	cmd, err := editor.NewOpener().Command("/tmp/f.md")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if got := filepath.Base(cmd.Args[0]); got != "visualeditor" {
		t.Errorf("editor: got %q, want %q", got, "visualeditor")
	}
}

// TestCommandNoEditorAnywhere verifies the error when nothing resolves.
func TestCommandNoEditorAnywhere(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("PATH", "")

	if _, err := editor.NewOpener().Command("/tmp/f.md"); err == nil {
		t.Fatal("expected error with no editor available, got nil")
	}
}

// TestCommandAtAddsLineForKnownEditors verifies the +line argument appears
// for vi-family editors and not for unknown ones.
func TestCommandAtAddsLineForKnownEditors(t *testing.T) {
	t.Setenv("EDITOR", "vim")
	cmd, err := editor.NewOpener().CommandAt("/tmp/f.go", 12)
	if err != nil {
		t.Fatalf("CommandAt: %v", err)
	}
	if len(cmd.Args) != 3 || cmd.Args[1] != "+12" {
		t.Errorf("args: got %v, want [vim +12 /tmp/f.go]", cmd.Args)
	}

	t.Setenv("EDITOR", "someide")
	cmd, err = editor.NewOpener().CommandAt("/tmp/f.go", 12)
	if err != nil {
		t.Fatalf("CommandAt: %v", err)
	}
	for _, a := range cmd.Args {
		if strings.HasPrefix(a, "+") {
			t.Errorf("unknown editor got a +line arg: %v", cmd.Args)
		}
	}
}

// TestComposeRoundTrip verifies the scratch file is seeded, handed to the
// editor, and read back with the editor's changes.
func TestComposeRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-script editor stub requires a POSIX shell")
	}

	// A stand-in editor that appends a line to the file it is given.
	script := filepath.Join(t.TempDir(), "fakeedit.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho edited >> \"$1\"\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("EDITOR", script)

	out, err := editor.NewOpener().Compose("seed text\n")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasPrefix(out, "seed text\n") {
		t.Errorf("composed text lost the seed: %q", out)
	}
	if !strings.Contains(out, "edited") {
		t.Errorf("composed text missing the editor's change: %q", out)
	}
}
