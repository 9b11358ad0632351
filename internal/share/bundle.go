// Package share renders lessons to standalone Markdown documents that can
// travel between workspaces, and reads them back losslessly.
package share

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallgren/codewalk/internal/lesson"
)

// Bundle is the complete, renderable representation of an exported lesson.
type Bundle struct {
	ID         string        `json:"id"`
	ExportedAt time.Time     `json:"exported_at"`
	Author     string        `json:"author,omitempty"`
	Workspace  string        `json:"workspace,omitempty"`
	Git        *GitInfo      `json:"git,omitempty"`
	Lesson     lesson.Lesson `json:"lesson"`
}

// GitInfo pins the repository state the lesson's ranges were written
// against, so a reader on another commit knows why lines may have drifted.
type GitInfo struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
}

// GitRunner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type GitRunner func(workDir string, args ...string) (string, error)

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

// GitCapture reads repository state for the bundle overview.
type GitCapture struct {
	Root   string
	Runner GitRunner // if nil, uses the real git subprocess
}

// Capture returns the workspace git state. A root that is not a repository,
// or a machine without git, yields a nil GitInfo plus a warning instead of
// an error, since exporting must work without version control.
func (g *GitCapture) Capture() (*GitInfo, []string) {
	runner := g.Runner
	if runner == nil {
		runner = defaultGitRunner
	}

	// Branch lookup doubles as the "is this a git repo?" check.
	branch, err := runner(g.Root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if isExitCode128(err) {
			return nil, []string{"not a git repository"}
		}
		return nil, []string{fmt.Sprintf("git unavailable: %v", err)}
	}

	commit, err := runner(g.Root, "rev-parse", "HEAD")
	if err != nil {
		return nil, []string{fmt.Sprintf("reading HEAD commit: %v", err)}
	}

	return &GitInfo{
		Branch: strings.TrimSpace(branch),
		Commit: strings.TrimSpace(commit),
	}, nil
}

// isExitCode128 reports whether err is an *exec.ExitError with exit code 128.
func isExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}

// BuildBundle captures l plus workspace context for export. Warnings carry
// non-fatal capture problems.
func BuildBundle(l *lesson.Lesson, root, author string, runner GitRunner) (*Bundle, []string) {
	b := &Bundle{
		ID:         uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		Author:     author,
		Lesson:     *l,
	}

	var warnings []string
	if root != "" {
		b.Workspace = filepath.Base(root)
		capture := &GitCapture{Root: root, Runner: runner}
		b.Git, warnings = capture.Capture()
	}
	return b, warnings
}
