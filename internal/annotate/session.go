// Package annotate builds one note at a time for the active lesson: marks
// accumulate into a draft, text is attached, and the draft commits as a
// single note.
package annotate

import (
	"path/filepath"

	"github.com/tallgren/codewalk/internal/lesson"
)

// Highlighter mirrors the pending marks in the terminal as they change.
type Highlighter interface {
	Refresh(file string, ranges []lesson.LineRange)
	Clear()
}

// Draft is the note under construction: the marked file, the accumulated
// ranges, and the Markdown text so far. An empty Ranges slice means the
// eventual note is a general one.
type Draft struct {
	File   string             `json:"file,omitempty"`
	Ranges []lesson.LineRange `json:"ranges,omitempty"`
	Text   string             `json:"text,omitempty"`
}

// Empty reports whether the draft carries nothing worth keeping.
func (d Draft) Empty() bool {
	return d.File == "" && len(d.Ranges) == 0 && d.Text == ""
}

// Session is the in-memory state machine for one pending note. The CLI
// holds at most one per workspace; persisting the draft between command
// invocations is the caller's concern (see DraftStore).
type Session struct {
	store *lesson.Store
	hl    Highlighter
	draft Draft
}

// NewSession returns an empty session bound to the lesson store and the
// highlight sink.
func NewSession(store *lesson.Store, hl Highlighter) *Session {
	return &Session{store: store, hl: hl}
}

// Resume seeds the session with a previously persisted draft.
func (s *Session) Resume(d Draft) {
	s.draft = d
}

// Draft returns a snapshot of the pending note for persistence or display.
func (s *Session) Draft() Draft {
	out := s.draft
	out.Ranges = append([]lesson.LineRange(nil), s.draft.Ranges...)
	return out
}

// AddRange marks a range of file. Marking a different file than the current
// draft discards the accumulated ranges and text and starts over on the new
// file. A range identical to one already marked is rejected, reported with
// a false return. Either way the highlight is refreshed to the full set.
func (s *Session) AddRange(file string, r lesson.LineRange) bool {
	file = filepath.ToSlash(file)
	if s.draft.File != file {
		s.draft = Draft{File: file}
	}

	added := true
	for _, have := range s.draft.Ranges {
		if have == r {
			added = false
			break
		}
	}
	if added {
		s.draft.Ranges = append(s.draft.Ranges, r)
	}

	s.hl.Refresh(s.draft.File, s.Draft().Ranges)
	return added
}

// RemoveRange drops the i'th accumulated range. An out-of-bounds index
// changes nothing. The highlight is refreshed either way.
func (s *Session) RemoveRange(i int) {
	if i >= 0 && i < len(s.draft.Ranges) {
		s.draft.Ranges = append(s.draft.Ranges[:i], s.draft.Ranges[i+1:]...)
	}
	s.hl.Refresh(s.draft.File, s.Draft().Ranges)
}

// SetText replaces the draft Markdown. No validation happens here.
func (s *Session) SetText(text string) {
	s.draft.Text = text
}

// Commit turns the draft into a note appended to the active lesson. With no
// marked ranges the note is general; otherwise it is a code note whose
// ranges are re-validated, and emptying the set through that filter is an
// error rather than a silent downgrade. The lesson body is reloaded from
// the store right before the append so an edit made while the draft was
// open is not overwritten wholesale. On success the session is empty again
// and the highlight cleared.
func (s *Session) Commit() (lesson.Note, error) {
	if s.store.ActiveSummary() == nil {
		return lesson.Note{}, lesson.ErrNoActiveLesson
	}

	var note lesson.Note
	if len(s.draft.Ranges) == 0 {
		note = lesson.NewGeneralNote(s.draft.Text)
	} else {
		var err error
		note, err = lesson.NewCodeNote(s.draft.File, s.draft.Ranges, s.draft.Text)
		if err != nil {
			return lesson.Note{}, err
		}
	}

	active := s.store.Active()
	if active == nil {
		return lesson.Note{}, lesson.ErrNoActiveLesson
	}
	active.Notes = append(active.Notes, note)
	if err := s.store.Save(active); err != nil {
		return lesson.Note{}, err
	}

	s.draft = Draft{}
	s.hl.Clear()
	return note, nil
}

// Discard drops the draft without persisting anything and clears the
// highlight.
func (s *Session) Discard() {
	s.draft = Draft{}
	s.hl.Clear()
}
