// Package lesson defines the lesson/note data model and the on-disk store
// that owns it. A lesson is a titled, ordered collection of notes; a note is
// either commentary tied to line ranges in one file (code note) or standalone
// commentary (general note).
package lesson

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// LineRange is a closed interval of zero-based line numbers within one file.
// Multiple ranges on a note are independent intervals; they are never merged
// or normalized.
type LineRange struct {
	Start int
	End   int
}

// Valid reports whether the range is well-formed: 0 <= Start <= End.
func (r LineRange) Valid() bool {
	return r.Start >= 0 && r.End >= r.Start
}

// MarshalJSON encodes the range as a two-element array [start, end].
func (r LineRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

// UnmarshalJSON decodes a [start, end] pair. Anything but a two-element
// number array is a parse error, which makes the enclosing lesson body
// unparsable and therefore invisible to the store.
func (r *LineRange) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line range must be a [start, end] pair, got %d elements", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// NoteKind discriminates the two note shapes.
type NoteKind string

const (
	KindGeneral NoteKind = "general"
	KindCode    NoteKind = "code"
)

// Note is one annotation in a lesson.
type Note struct {
	Kind     NoteKind    `json:"type"`
	File     string      `json:"file,omitempty"` // workspace-relative, forward slashes
	Ranges   []LineRange `json:"ranges,omitempty"`
	Markdown string      `json:"markdown"`
}

// IsCode reports whether the note references code ranges.
func (n Note) IsCode() bool {
	return n.Kind == KindCode
}

// NewGeneralNote builds a standalone note. The markdown text is trimmed.
func NewGeneralNote(markdown string) Note {
	return Note{Kind: KindGeneral, Markdown: strings.TrimSpace(markdown)}
}

// NewCodeNote builds a note attached to line ranges in file. Malformed ranges
// are dropped; when none survive the note cannot be built and a
// ValidationError is returned instead of silently degrading to a general
// note.
func NewCodeNote(file string, ranges []LineRange, markdown string) (Note, error) {
	valid := make([]LineRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return Note{}, &ValidationError{Msg: "no valid ranges"}
	}
	return Note{
		Kind:     KindCode,
		File:     filepath.ToSlash(file),
		Ranges:   valid,
		Markdown: markdown,
	}, nil
}

// Lesson is a titled, ordered collection of notes. Note order is append
// order and doubles as review order; there is no reordering operation.
type Lesson struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Notes []Note `json:"notes"`
}

// Summary is the index projection of a lesson: enough to list lessons
// without loading their note bodies.
type Summary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
