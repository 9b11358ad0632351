// Package display renders file excerpts and note markdown for the
// terminal. It is the single sink behind both the annotation highlighter
// and the review host, so marks made while annotating and ranges shown
// while reviewing go through the same rendering path.
package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tallgren/codewalk/internal/lesson"
)

// ── Styles ────────────

var (
	// File path heading above an excerpt
	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Line numbers of unmarked context lines
	numStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// Line numbers of marked lines
	markedNumStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	// Marked line content
	markedLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	// Unmarked context line content
	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// Gap marker between non-adjacent excerpt blocks
	gapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// DefaultContext is how many unmarked lines surround each marked range in
// an excerpt.
const DefaultContext = 3

// Display holds the open file, the highlighted ranges and the pending
// markdown, and renders them on demand.
type Display struct {
	root    string
	context int
	width   int

	file   string   // workspace-relative, forward slashes
	lines  []string // content of the open file
	ranges []lesson.LineRange
	reveal int // zero-based line to bring into view, -1 when unset

	markdown string
	renderer *glamour.TermRenderer
}

// New returns a display resolving files against the given workspace root.
func New(root string) *Display {
	return &Display{root: root, context: DefaultContext, width: 80, reveal: -1}
}

// SetContext sets how many surrounding lines excerpts include per range.
// Values below zero are ignored.
func (d *Display) SetContext(n int) {
	if n >= 0 {
		d.context = n
	}
}

// SetWidth sets the wrap width for rendered markdown.
func (d *Display) SetWidth(w int) {
	if w > 0 && w != d.width {
		d.width = w
		d.renderer = nil
	}
}

// OpenFile loads the file at the given absolute path so later Highlight
// calls have lines to excerpt.
func (d *Display) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rel, relErr := filepath.Rel(d.root, path)
	if relErr != nil {
		rel = filepath.Base(path)
	}
	d.file = filepath.ToSlash(rel)
	d.lines = splitLines(data)
	d.ranges = nil
	d.reveal = -1
	return nil
}

// Highlight marks the given ranges on the open file, replacing any prior
// marks.
func (d *Display) Highlight(ranges []lesson.LineRange) {
	d.ranges = append([]lesson.LineRange(nil), ranges...)
}

// ClearHighlight drops all marks. The open file stays loaded.
func (d *Display) ClearHighlight() {
	d.ranges = nil
	d.reveal = -1
}

// Reveal records which range the excerpt viewport should bring into view.
func (d *Display) Reveal(r lesson.LineRange) {
	d.reveal = r.Start
}

// Refresh loads a workspace-relative file and marks ranges on it in one
// step. An unreadable file leaves the excerpt empty without failing, since
// a mark may legitimately point at a file the instructor has not written
// yet.
func (d *Display) Refresh(file string, ranges []lesson.LineRange) {
	d.file = filepath.ToSlash(file)
	d.lines = nil
	if d.root != "" {
		if data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(file))); err == nil {
			d.lines = splitLines(data)
		}
	}
	d.ranges = append([]lesson.LineRange(nil), ranges...)
	d.reveal = -1
}

// Clear resets the display to its initial empty state.
func (d *Display) Clear() {
	d.file = ""
	d.lines = nil
	d.ranges = nil
	d.reveal = -1
}

// Open makes the markdown panel visible. A terminal has no separate panel
// surface, so there is nothing to do; the rendered markdown appears inline.
func (d *Display) Open() {}

// SetMarkdown stores the markdown of the current step for rendering.
func (d *Display) SetMarkdown(markdown string) {
	d.markdown = markdown
}

// File returns the workspace-relative path of the open file.
func (d *Display) File() string {
	return d.file
}

// Ranges returns the currently marked ranges.
func (d *Display) Ranges() []lesson.LineRange {
	return append([]lesson.LineRange(nil), d.ranges...)
}

// Excerpt renders the marked ranges of the open file with line numbers,
// each range padded by the configured context and separated from the next
// block by a gap marker. Line numbers are shown one-based. Empty when no
// file is loaded or nothing is marked.
func (d *Display) Excerpt() string {
	lines, _ := d.excerptLines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// RevealOffset returns the excerpt line index holding the reveal target, so
// a viewport can scroll it into view. Zero when no target is set.
func (d *Display) RevealOffset() int {
	_, offset := d.excerptLines()
	return offset
}

// Markdown renders the stored markdown through glamour. When the renderer
// cannot be built or fails, the raw markdown comes back instead so the note
// is never lost to a styling problem.
func (d *Display) Markdown() string {
	if strings.TrimSpace(d.markdown) == "" {
		return ""
	}
	if d.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(d.width),
		)
		if err != nil {
			return d.markdown
		}
		d.renderer = r
	}
	out, err := d.renderer.Render(d.markdown)
	if err != nil {
		return d.markdown
	}
	return out
}

// excerptLines builds the rendered excerpt and the output index of the
// reveal target in one pass.
func (d *Display) excerptLines() ([]string, int) {
	if len(d.lines) == 0 || len(d.ranges) == 0 {
		return nil, 0
	}

	include := make(map[int]bool)
	marked := make(map[int]bool)
	for _, r := range d.ranges {
		for i := r.Start; i <= r.End && i < len(d.lines); i++ {
			if i < 0 {
				continue
			}
			marked[i] = true
		}
		lo := r.Start - d.context
		if lo < 0 {
			lo = 0
		}
		hi := r.End + d.context
		if hi > len(d.lines)-1 {
			hi = len(d.lines) - 1
		}
		for i := lo; i <= hi; i++ {
			include[i] = true
		}
	}
	if len(include) == 0 {
		return nil, 0
	}

	out := []string{fileStyle.Render(d.file)}
	revealAt := 0
	prev := -2
	for i := 0; i < len(d.lines); i++ {
		if !include[i] {
			continue
		}
		if prev >= 0 && i > prev+1 {
			out = append(out, gapStyle.Render("     ⋯"))
		}
		if i == d.reveal {
			revealAt = len(out)
		}
		num := fmt.Sprintf("%4d ", i+1)
		if marked[i] {
			out = append(out, markedNumStyle.Render(num)+markedLineStyle.Render("│ "+d.lines[i]))
		} else {
			out = append(out, numStyle.Render(num)+contextStyle.Render("  "+d.lines[i]))
		}
		prev = i
	}
	return out, revealAt
}

// splitLines normalizes line endings and drops the trailing empty element a
// final newline produces.
func splitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
