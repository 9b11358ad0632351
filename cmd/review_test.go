package cmd

import (
	"strings"
	"testing"
)

// TestReviewPlainWalkthrough runs the whole capture → review flow: a code
// note and a general note, replayed front to back with --plain.
func TestReviewPlainWalkthrough(t *testing.T) {
	root := testWorkspace(t)
	writeSource(t, root, "a.ts", 20)

	if _, err := executeCommand(rootCmd, "create", "Intro"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := executeCommand(rootCmd, "mark", "a.ts", "11", "13"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if _, err := executeCommand(rootCmd, "note", "-m", "explain loop"); err != nil {
		t.Fatalf("note: %v", err)
	}
	if _, err := executeCommand(rootCmd, "note", "-m", "wrap up"); err != nil {
		t.Fatalf("note: %v", err)
	}

	out, err := executeCommand(rootCmd, "review", "--plain")
	if err != nil {
		t.Fatalf("review --plain: %v", err)
	}

	if !strings.Contains(out, "step 1/2") || !strings.Contains(out, "step 2/2") {
		t.Errorf("expected both steps in order, got:\n%s", out)
	}
	if !strings.Contains(out, "a.ts") {
		t.Errorf("expected the code note's file in step 1, got:\n%s", out)
	}
	if !strings.Contains(out, "explain loop") || !strings.Contains(out, "wrap up") {
		t.Errorf("expected both note bodies, got:\n%s", out)
	}

	// The code note renders before the general one, matching review order.
	if strings.Index(out, "explain loop") > strings.Index(out, "wrap up") {
		t.Errorf("notes out of order, got:\n%s", out)
	}
	// The general step clears the highlight: no excerpt after step 2's header.
	step2 := out[strings.Index(out, "step 2/2"):]
	if strings.Contains(step2, "a.ts") {
		t.Errorf("general step still shows code excerpt:\n%s", step2)
	}
}

// TestReviewWithoutNotesFails verifies the start refusals come with hints.
func TestReviewWithoutNotesFails(t *testing.T) {
	testWorkspace(t)

	_, err := executeCommand(rootCmd, "review", "--plain")
	if err == nil || !strings.Contains(err.Error(), "no active lesson") {
		t.Fatalf("expected no-active-lesson error, got %v", err)
	}

	if _, err := executeCommand(rootCmd, "create", "Empty"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = executeCommand(rootCmd, "review", "--plain")
	if err == nil || !strings.Contains(err.Error(), "no notes") {
		t.Fatalf("expected no-notes error, got %v", err)
	}
}
