// Package check compares a lesson's marks against the current working tree
// and reports the ones that no longer fit. Line ranges are static, so file
// edits after annotation can strand them; check makes that visible without
// ever touching the notes.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tallgren/codewalk/internal/lesson"
)

// A Finding flags one note whose file or ranges have drifted.
type Finding struct {
	NoteIndex int // zero-based position in the lesson
	File      string
	Detail    string
}

// Result is the outcome of checking one lesson. Findings are the drifted
// notes; Warnings carry problems with the check itself, like an unreadable
// file.
type Result struct {
	LessonID int
	Title    string
	Findings []Finding
	Warnings []string
}

// Clean reports whether every mark still fits the working tree.
func (r Result) Clean() bool {
	return len(r.Findings) == 0 && len(r.Warnings) == 0
}

// Run inspects l's code notes against the files under root. General notes
// have nothing to drift and are skipped.
func Run(root string, l *lesson.Lesson) Result {
	res := Result{LessonID: l.ID, Title: l.Title}

	type fileState struct {
		lines   int
		missing bool
	}
	cache := make(map[string]fileState)

	for i, n := range l.Notes {
		if !n.IsCode() {
			continue
		}

		st, ok := cache[n.File]
		if !ok {
			lines, err := countLines(filepath.Join(root, filepath.FromSlash(n.File)))
			switch {
			case errors.Is(err, os.ErrNotExist):
				st = fileState{missing: true}
			case err != nil:
				res.Warnings = append(res.Warnings, fmt.Sprintf("cannot read %s: %v", n.File, err))
				st = fileState{missing: true}
			default:
				st = fileState{lines: lines}
			}
			cache[n.File] = st
		}

		if st.missing {
			res.Findings = append(res.Findings, Finding{
				NoteIndex: i,
				File:      n.File,
				Detail:    "file missing",
			})
			continue
		}

		for _, r := range n.Ranges {
			if r.End >= st.lines {
				res.Findings = append(res.Findings, Finding{
					NoteIndex: i,
					File:      n.File,
					Detail: fmt.Sprintf("%s past end of file (%d lines)",
						describeRange(r), st.lines),
				})
			}
		}
	}
	return res
}

// countLines returns how many lines the file at path holds.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return len(lines), nil
}

// describeRange renders a zero-based range one-based, the way editors show
// lines.
func describeRange(r lesson.LineRange) string {
	if r.Start == r.End {
		return fmt.Sprintf("line %d", r.Start+1)
	}
	return fmt.Sprintf("lines %d-%d", r.Start+1, r.End+1)
}
