// Package review walks a fixed snapshot of the active lesson's notes one
// step at a time, driving file highlighting and a markdown panel for the
// note under the cursor.
package review

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tallgren/codewalk/internal/lesson"
)

// ErrNoNotes is returned by Start when the active lesson has nothing to
// review.
var ErrNoNotes = errors.New("lesson has no notes")

// ErrReviewActive is returned by Start while a review is already running.
var ErrReviewActive = errors.New("review already in progress")

// ErrNotReviewing is returned by Next and Prev outside a running review.
var ErrNotReviewing = errors.New("no review in progress")

// Host performs the file-facing side of a step: opening the note's file,
// decorating its ranges and scrolling them into view.
type Host interface {
	OpenFile(path string) error
	Highlight(ranges []lesson.LineRange)
	ClearHighlight()
	Reveal(r lesson.LineRange)
}

// Panel shows the rendered note markdown next to the code.
type Panel interface {
	Open()
	SetMarkdown(markdown string)
}

// Step describes the note the navigator landed on after a call. Moved is
// false when a boundary bounced the call back without changing position.
// Warnings carry non-fatal display problems, a missing note file being the
// usual one.
type Step struct {
	Index    int
	Total    int
	Note     lesson.Note
	Moved    bool
	Warnings []string
}

// Navigator is the bounded walk over one lesson snapshot. The zero state is
// inactive; Stop always returns to it, so one navigator serves many review
// sessions in a row.
type Navigator struct {
	store *lesson.Store
	host  Host
	panel Panel
	root  string

	active      bool
	title       string
	notes       []lesson.Note
	index       int
	panelOpened bool
}

// NewNavigator returns an inactive navigator. root is the workspace root
// code-note paths resolve against; when empty, every host interaction is
// skipped and only markdown is published.
func NewNavigator(store *lesson.Store, root string, host Host, panel Panel) *Navigator {
	return &Navigator{store: store, host: host, panel: panel, root: root}
}

// Active reports whether a review is running.
func (n *Navigator) Active() bool {
	return n.active
}

// Title returns the reviewed lesson's title while a review is running.
func (n *Navigator) Title() string {
	return n.title
}

// Start snapshots the active lesson's notes and shows the first one.
// External edits to the lesson during the review do not affect the
// walkthrough. A second Start while running fails with ErrReviewActive.
func (n *Navigator) Start() (Step, error) {
	if n.active {
		return Step{}, ErrReviewActive
	}
	l := n.store.Active()
	if l == nil {
		return Step{}, lesson.ErrNoActiveLesson
	}
	if len(l.Notes) == 0 {
		return Step{}, ErrNoNotes
	}

	n.active = true
	n.title = l.Title
	n.notes = append([]lesson.Note(nil), l.Notes...)
	n.index = 0
	n.panelOpened = false
	return n.show(), nil
}

// Next advances one note. At the last note the position holds and the step
// reports Moved=false without re-running the display.
func (n *Navigator) Next() (Step, error) {
	if !n.active {
		return Step{}, ErrNotReviewing
	}
	if n.index >= len(n.notes)-1 {
		return n.step(false), nil
	}
	n.index++
	return n.show(), nil
}

// Prev steps back one note. At the first note the position holds and the
// step reports Moved=false without re-running the display.
func (n *Navigator) Prev() (Step, error) {
	if !n.active {
		return Step{}, ErrNotReviewing
	}
	if n.index == 0 {
		return n.step(false), nil
	}
	n.index--
	return n.show(), nil
}

// Stop ends the review, clears the highlight and discards the snapshot.
// Stopping an inactive navigator does nothing.
func (n *Navigator) Stop() {
	if !n.active {
		return
	}
	n.active = false
	n.title = ""
	n.notes = nil
	n.index = 0
	if n.root != "" {
		n.host.ClearHighlight()
	}
}

// show runs the display computation for the note under the cursor: file and
// highlight work first, markdown publication last, so the panel always
// reflects the step actually on screen.
func (n *Navigator) show() Step {
	step := n.step(true)
	note := step.Note

	if n.root != "" {
		if note.IsCode() {
			path := filepath.Join(n.root, filepath.FromSlash(note.File))
			if err := n.host.OpenFile(path); err != nil {
				step.Warnings = append(step.Warnings, fmt.Sprintf("cannot open %s: %v", note.File, err))
				n.host.ClearHighlight()
			} else {
				n.host.Highlight(note.Ranges)
				if len(note.Ranges) > 0 {
					n.host.Reveal(note.Ranges[0])
				}
			}
		} else {
			n.host.ClearHighlight()
		}
	}

	if !n.panelOpened {
		n.panel.Open()
		n.panelOpened = true
	}
	n.panel.SetMarkdown(note.Markdown)
	return step
}

func (n *Navigator) step(moved bool) Step {
	return Step{
		Index: n.index,
		Total: len(n.notes),
		Note:  n.notes[n.index],
		Moved: moved,
	}
}
