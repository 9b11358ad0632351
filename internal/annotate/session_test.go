package annotate_test

import (
	"errors"
	"testing"

	"github.com/tallgren/codewalk/internal/annotate"
	"github.com/tallgren/codewalk/internal/lesson"
)

// fakeHighlighter records highlight requests for assertions.
type fakeHighlighter struct {
	file       string
	ranges     []lesson.LineRange
	refreshes  int
	clearCalls int
}

func (f *fakeHighlighter) Refresh(file string, ranges []lesson.LineRange) {
	f.file = file
	f.ranges = ranges
	f.refreshes++
}

func (f *fakeHighlighter) Clear() {
	f.ranges = nil
	f.clearCalls++
}

func newTestSession(t *testing.T) (*annotate.Session, *lesson.Store, *fakeHighlighter) {
	t.Helper()
	store := lesson.NewStore(t.TempDir())
	hl := &fakeHighlighter{}
	return annotate.NewSession(store, hl), store, hl
}

// TestAddRangeRejectsDuplicate verifies an identical range is not added
// twice but still refreshes the highlight.
func TestAddRangeRejectsDuplicate(t *testing.T) {
	sess, _, hl := newTestSession(t)

	if !sess.AddRange("main.go", lesson.LineRange{Start: 2, End: 5}) {
		t.Fatal("first AddRange: got false, want true")
	}
	if sess.AddRange("main.go", lesson.LineRange{Start: 2, End: 5}) {
		t.Error("duplicate AddRange: got true, want false")
	}

	d := sess.Draft()
	if len(d.Ranges) != 1 {
		t.Errorf("Ranges length: got %d, want 1", len(d.Ranges))
	}
	if hl.refreshes != 2 {
		t.Errorf("refreshes: got %d, want 2", hl.refreshes)
	}
	if len(hl.ranges) != 1 {
		t.Errorf("highlighted ranges: got %d, want 1", len(hl.ranges))
	}
}

// TestAddRangeSwitchingFileResetsDraft verifies marking a different file
// discards the accumulated ranges and text.
func TestAddRangeSwitchingFileResetsDraft(t *testing.T) {
	sess, _, hl := newTestSession(t)

	sess.AddRange("a.go", lesson.LineRange{Start: 0, End: 3})
	sess.AddRange("a.go", lesson.LineRange{Start: 7, End: 9})
	sess.SetText("half-written thought")

	sess.AddRange("b.go", lesson.LineRange{Start: 5, End: 6})

	d := sess.Draft()
	if d.File != "b.go" {
		t.Errorf("File: got %q, want %q", d.File, "b.go")
	}
	if len(d.Ranges) != 1 || d.Ranges[0] != (lesson.LineRange{Start: 5, End: 6}) {
		t.Errorf("Ranges: got %v, want [{5 6}]", d.Ranges)
	}
	if d.Text != "" {
		t.Errorf("Text after switch: got %q, want empty", d.Text)
	}
	if hl.file != "b.go" {
		t.Errorf("highlighted file: got %q, want %q", hl.file, "b.go")
	}
}

// TestRemoveRange verifies positional removal and that out-of-bounds
// indexes change nothing.
func TestRemoveRange(t *testing.T) {
	sess, _, hl := newTestSession(t)

	sess.AddRange("main.go", lesson.LineRange{Start: 0, End: 1})
	sess.AddRange("main.go", lesson.LineRange{Start: 4, End: 8})

	sess.RemoveRange(5)
	sess.RemoveRange(-1)
	if got := len(sess.Draft().Ranges); got != 2 {
		t.Fatalf("Ranges after out-of-bounds removes: got %d, want 2", got)
	}

	sess.RemoveRange(0)
	d := sess.Draft()
	if len(d.Ranges) != 1 || d.Ranges[0] != (lesson.LineRange{Start: 4, End: 8}) {
		t.Errorf("Ranges after remove: got %v, want [{4 8}]", d.Ranges)
	}
	// Two adds plus three removes, each refreshing.
	if hl.refreshes != 5 {
		t.Errorf("refreshes: got %d, want 5", hl.refreshes)
	}
}

// TestCommitGeneralNote verifies a draft without ranges commits as a
// general note with trimmed text.
func TestCommitGeneralNote(t *testing.T) {
	sess, store, hl := newTestSession(t)
	if _, err := store.Create("intro"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess.SetText("  why this layout exists  \n")
	note, err := sess.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if note.Kind != lesson.KindGeneral {
		t.Errorf("Kind: got %q, want %q", note.Kind, lesson.KindGeneral)
	}
	if got, want := note.Markdown, "why this layout exists"; got != want {
		t.Errorf("Markdown: got %q, want %q", got, want)
	}

	active := store.Active()
	if active == nil || len(active.Notes) != 1 {
		t.Fatalf("persisted notes: got %v, want one note", active)
	}
	if !sess.Draft().Empty() {
		t.Errorf("draft after commit: got %+v, want empty", sess.Draft())
	}
	if hl.clearCalls != 1 {
		t.Errorf("clearCalls: got %d, want 1", hl.clearCalls)
	}
}

// TestCommitCodeNote verifies a draft with ranges commits as a code note
// carrying the marked file and ranges.
func TestCommitCodeNote(t *testing.T) {
	sess, store, _ := newTestSession(t)
	if _, err := store.Create("walk"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess.AddRange("pkg/server.go", lesson.LineRange{Start: 10, End: 14})
	sess.AddRange("pkg/server.go", lesson.LineRange{Start: 30, End: 30})
	sess.SetText("the accept loop")

	note, err := sess.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if note.Kind != lesson.KindCode {
		t.Errorf("Kind: got %q, want %q", note.Kind, lesson.KindCode)
	}
	if note.File != "pkg/server.go" {
		t.Errorf("File: got %q, want %q", note.File, "pkg/server.go")
	}
	if len(note.Ranges) != 2 {
		t.Errorf("Ranges length: got %d, want 2", len(note.Ranges))
	}

	active := store.Active()
	if active == nil || len(active.Notes) != 1 {
		t.Fatal("expected exactly one persisted note")
	}
	if active.Notes[0].File != "pkg/server.go" {
		t.Errorf("persisted File: got %q, want %q", active.Notes[0].File, "pkg/server.go")
	}
}

// TestCommitRequiresActiveLesson verifies committing into an empty store
// reports ErrNoActiveLesson.
func TestCommitRequiresActiveLesson(t *testing.T) {
	sess, _, _ := newTestSession(t)
	sess.SetText("orphan")
	if _, err := sess.Commit(); !errors.Is(err, lesson.ErrNoActiveLesson) {
		t.Errorf("Commit: got %v, want ErrNoActiveLesson", err)
	}
}

// TestCommitRejectsAllInvalidRanges verifies a draft whose ranges all fail
// re-validation errors out instead of degrading to a general note, and the
// draft survives for the user to fix.
func TestCommitRejectsAllInvalidRanges(t *testing.T) {
	sess, store, _ := newTestSession(t)
	if _, err := store.Create("broken"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Ranges like this can only come from a hand-edited draft file.
	sess.Resume(annotate.Draft{
		File:   "a.go",
		Ranges: []lesson.LineRange{{Start: 9, End: 2}},
		Text:   "text",
	})

	_, err := sess.Commit()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var verr *lesson.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got: %v", err)
	}

	if active := store.Active(); len(active.Notes) != 0 {
		t.Errorf("notes after failed commit: got %d, want 0", len(active.Notes))
	}
	if sess.Draft().Empty() {
		t.Error("draft after failed commit: got empty, want preserved")
	}
}

// TestCommitReloadsLessonBeforeAppend verifies an external edit made while
// the draft was open survives the commit.
func TestCommitReloadsLessonBeforeAppend(t *testing.T) {
	sess, store, _ := newTestSession(t)
	l, err := store.Create("shared")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess.AddRange("x.go", lesson.LineRange{Start: 1, End: 2})
	sess.SetText("mine")

	// Another writer appends a note behind the session's back.
	external := store.Get(l.ID)
	external.Notes = append(external.Notes, lesson.NewGeneralNote("theirs"))
	if err := store.Save(external); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := sess.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	final := store.Get(l.ID)
	if len(final.Notes) != 2 {
		t.Fatalf("Notes length: got %d, want 2", len(final.Notes))
	}
	if final.Notes[0].Markdown != "theirs" {
		t.Errorf("Notes[0].Markdown: got %q, want %q", final.Notes[0].Markdown, "theirs")
	}
	if final.Notes[1].Markdown != "mine" {
		t.Errorf("Notes[1].Markdown: got %q, want %q", final.Notes[1].Markdown, "mine")
	}
}

// TestDiscardClearsEverything verifies discard empties the draft and clears
// the highlight without touching the store.
func TestDiscardClearsEverything(t *testing.T) {
	sess, store, hl := newTestSession(t)
	if _, err := store.Create("kept"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess.AddRange("y.go", lesson.LineRange{Start: 3, End: 4})
	sess.SetText("never mind")
	sess.Discard()

	if !sess.Draft().Empty() {
		t.Errorf("draft after discard: got %+v, want empty", sess.Draft())
	}
	if hl.clearCalls != 1 {
		t.Errorf("clearCalls: got %d, want 1", hl.clearCalls)
	}
	if active := store.Active(); len(active.Notes) != 0 {
		t.Errorf("notes after discard: got %d, want 0", len(active.Notes))
	}
}
