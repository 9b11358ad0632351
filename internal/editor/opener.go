// Package editor locates the user's preferred text editor and builds
// commands for it.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Opener resolves and launches the user's editor. Preferred, when set,
// wins over $EDITOR/$VISUAL discovery; it comes from config or the profile.
type Opener struct {
	Preferred string
}

// NewOpener creates a new editor opener.
func NewOpener() *Opener {
	return &Opener{}
}

// OpenFile opens a file in the user's preferred editor and waits for it to
// exit.
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor.
// This is useful for integrating with bubbletea's ExecProcess.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	return o.CommandAt(path, 0)
}

// CommandAt is Command with the cursor positioned at a one-based line,
// using the +line convention when the editor is known to support it. A
// line of zero or an editor without the convention opens the file plainly.
func (o *Opener) CommandAt(path string, line int) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := []string{path}
	if line > 0 && supportsLineArg(editor) {
		args = []string{fmt.Sprintf("+%d", line), path}
	}

	cmd := exec.Command(editor, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// Compose opens the editor on a scratch Markdown file seeded with initial
// and returns whatever the user left in it.
func (o *Opener) Compose(initial string) (string, error) {
	tmp, err := os.CreateTemp("", "codewalk-note-*.md")
	if err != nil {
		return "", fmt.Errorf("creating scratch file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seeding scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("seeding scratch file: %w", err)
	}

	if err := o.OpenFile(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading scratch file: %w", err)
	}
	return string(edited), nil
}

// findEditor returns the editor to use.
func (o *Opener) findEditor() string {
	if o.Preferred != "" {
		return o.Preferred
	}

	// Check $EDITOR first
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Check $VISUAL
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}

// supportsLineArg reports whether the editor accepts a +line argument.
func supportsLineArg(editor string) bool {
	switch filepath.Base(editor) {
	case "nvim", "vim", "vi", "gvim", "nano", "emacs", "micro":
		return true
	}
	return false
}
