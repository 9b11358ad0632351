package check_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tallgren/codewalk/internal/check"
	"github.com/tallgren/codewalk/internal/lesson"
)

func writeLines(t *testing.T, root, name string, n int) {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("line\n")
	}
	if err := os.WriteFile(filepath.Join(root, name), []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func mustCodeNote(t *testing.T, file string, ranges ...lesson.LineRange) lesson.Note {
	t.Helper()
	n, err := lesson.NewCodeNote(file, ranges, "text")
	if err != nil {
		t.Fatalf("NewCodeNote: %v", err)
	}
	return n
}

// TestRunCleanLesson verifies a lesson whose marks all fit reports nothing.
func TestRunCleanLesson(t *testing.T) {
	root := t.TempDir()
	writeLines(t, root, "a.go", 10)

	l := &lesson.Lesson{ID: 1, Title: "t", Notes: []lesson.Note{
		mustCodeNote(t, "a.go", lesson.LineRange{Start: 0, End: 9}),
		lesson.NewGeneralNote("no code here"),
	}}

	res := check.Run(root, l)
	if !res.Clean() {
		t.Errorf("expected clean result, got findings %v warnings %v", res.Findings, res.Warnings)
	}
}

// TestRunFlagsMissingFileAndStrandedRange verifies both drift shapes are
// reported against the right note.
func TestRunFlagsMissingFileAndStrandedRange(t *testing.T) {
	root := t.TempDir()
	writeLines(t, root, "short.go", 5)

	l := &lesson.Lesson{ID: 2, Title: "t", Notes: []lesson.Note{
		mustCodeNote(t, "gone.go", lesson.LineRange{Start: 0, End: 1}),
		mustCodeNote(t, "short.go", lesson.LineRange{Start: 3, End: 8}),
		mustCodeNote(t, "short.go", lesson.LineRange{Start: 0, End: 4}),
	}}

	res := check.Run(root, l)
	if len(res.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %v", res.Findings)
	}

	if f := res.Findings[0]; f.NoteIndex != 0 || f.File != "gone.go" || f.Detail != "file missing" {
		t.Errorf("first finding: got %+v", f)
	}
	if f := res.Findings[1]; f.NoteIndex != 1 || f.File != "short.go" || !strings.Contains(f.Detail, "past end of file") {
		t.Errorf("second finding: got %+v", f)
	}
	// The one-based rendering people see in editors.
	if !strings.Contains(res.Findings[1].Detail, "lines 4-9") {
		t.Errorf("expected one-based range in detail, got %q", res.Findings[1].Detail)
	}
}
