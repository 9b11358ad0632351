package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tallgren/codewalk/internal/annotate"
	"github.com/tallgren/codewalk/internal/lesson"
)

func writeSource(t *testing.T, root, name string, lines int) {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= lines; i++ {
		sb.WriteString("line\n")
	}
	if err := os.WriteFile(filepath.Join(root, name), []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestMarkDuplicateRejected verifies marking identical lines twice keeps a
// single pending mark.
func TestMarkDuplicateRejected(t *testing.T) {
	root := testWorkspace(t)
	writeSource(t, root, "a.ts", 20)

	if _, err := executeCommand(rootCmd, "create", "Intro"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := executeCommand(rootCmd, "mark", "a.ts", "3", "6"); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	out, err := executeCommand(rootCmd, "mark", "a.ts", "3", "6")
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if !strings.Contains(out, "already marked") {
		t.Errorf("expected duplicate notice, got:\n%s", out)
	}

	draft, err := annotate.NewDraftStore(filepath.Join(root, lesson.DirName)).Load()
	if err != nil {
		t.Fatalf("Load draft: %v", err)
	}
	want := []lesson.LineRange{{Start: 2, End: 5}}
	if len(draft.Ranges) != 1 || draft.Ranges[0] != want[0] {
		t.Errorf("draft ranges: got %v, want %v", draft.Ranges, want)
	}
}

// TestMarkSwitchingFileStartsOver verifies marks on a second file discard
// the first file's accumulated state.
func TestMarkSwitchingFileStartsOver(t *testing.T) {
	root := testWorkspace(t)
	writeSource(t, root, "a.ts", 20)
	writeSource(t, root, "b.ts", 20)

	if _, err := executeCommand(rootCmd, "create", "Intro"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "a.ts", "3", "6"); err != nil {
		t.Fatalf("mark a.ts: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "b.ts", "1"); err != nil {
		t.Fatalf("mark b.ts: %v", err)
	}

	draft, err := annotate.NewDraftStore(filepath.Join(root, lesson.DirName)).Load()
	if err != nil {
		t.Fatalf("Load draft: %v", err)
	}
	if draft.File != "b.ts" {
		t.Errorf("draft file: got %q, want %q", draft.File, "b.ts")
	}
	if len(draft.Ranges) != 1 || draft.Ranges[0] != (lesson.LineRange{Start: 0, End: 0}) {
		t.Errorf("draft ranges: got %v, want just b.ts line 1", draft.Ranges)
	}
}

// TestMarkRemoveByPosition verifies --remove drops the n'th pending mark.
func TestMarkRemoveByPosition(t *testing.T) {
	root := testWorkspace(t)
	writeSource(t, root, "a.ts", 20)

	if _, err := executeCommand(rootCmd, "create", "Intro"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "a.ts", "3", "6"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "a.ts", "10"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	if _, err := executeCommand(rootCmd, "mark", "--remove", "1"); err != nil {
		t.Fatalf("mark --remove: %v", err)
	}

	draft, err := annotate.NewDraftStore(filepath.Join(root, lesson.DirName)).Load()
	if err != nil {
		t.Fatalf("Load draft: %v", err)
	}
	want := lesson.LineRange{Start: 9, End: 9}
	if len(draft.Ranges) != 1 || draft.Ranges[0] != want {
		t.Errorf("draft ranges after remove: got %v, want [%v]", draft.Ranges, want)
	}
}

// TestMarkEndBeforeStartRejected verifies the CLI refuses an inverted range.
func TestMarkEndBeforeStartRejected(t *testing.T) {
	root := testWorkspace(t)
	writeSource(t, root, "a.ts", 20)

	if _, err := executeCommand(rootCmd, "create", "Intro"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "a.ts", "5", "2"); err == nil {
		t.Fatal("expected an error for end before start, got nil")
	}
}
