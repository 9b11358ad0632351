package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tallgren/codewalk/internal/lesson"
)

// BundleRenderer serializes a Bundle to bytes.
type BundleRenderer interface {
	Render(b *Bundle) ([]byte, error)
}

// JSONRenderer renders a Bundle as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(b *Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// MarkdownRenderer renders a Bundle as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing. When Root
// is set, code notes carry a fenced excerpt of their ranges captured at
// render time, so the document stands on its own away from the workspace.
type MarkdownRenderer struct {
	Root string
}

func (r *MarkdownRenderer) Render(b *Bundle) ([]byte, error) {
	// Marshal the bundle to JSON and base64-encode it for the embedded payload.
	jsonBytes, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder

	// Sentinel and embedded payload.
	sb.WriteString("<!-- codewalk-lesson-version: 1 -->\n")
	fmt.Fprintf(&sb, "<!-- codewalk-data: %s -->\n\n", encoded)

	// Title.
	fmt.Fprintf(&sb, "# Lesson — %s\n\n", b.Lesson.Title)

	// ## Overview
	sb.WriteString("## Overview\n\n")
	fmt.Fprintf(&sb, "- Exported: %s\n", b.ExportedAt.Format("2006-01-02 15:04:05 MST"))
	if b.Author != "" {
		fmt.Fprintf(&sb, "- Author: %s\n", b.Author)
	}
	if b.Workspace != "" {
		fmt.Fprintf(&sb, "- Workspace: %s\n", b.Workspace)
	}
	if b.Git != nil {
		fmt.Fprintf(&sb, "- Branch: %s\n", b.Git.Branch)
		fmt.Fprintf(&sb, "- Commit: %s\n", b.Git.Commit)
	}
	fmt.Fprintf(&sb, "- Steps: %d\n", len(b.Lesson.Notes))
	sb.WriteString("\n")

	// One section per note, in review order.
	for i, n := range b.Lesson.Notes {
		if n.IsCode() {
			fmt.Fprintf(&sb, "## Step %d — %s (%s)\n\n", i+1, n.File, formatRanges(n.Ranges))
			r.renderExcerpt(&sb, n)
		} else {
			fmt.Fprintf(&sb, "## Step %d\n\n", i+1)
		}
		body := strings.TrimSpace(n.Markdown)
		if body == "" {
			sb.WriteString("_No note text._\n")
		} else {
			sb.WriteString(body + "\n")
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// renderExcerpt appends a fenced snapshot of each range of n, read from the
// workspace at render time.
func (r *MarkdownRenderer) renderExcerpt(sb *strings.Builder, n lesson.Note) {
	if r.Root == "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(n.File)))
	if err != nil {
		sb.WriteString("_Source not available at export time._\n\n")
		return
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	lang := strings.TrimPrefix(filepath.Ext(n.File), ".")

	for _, rg := range n.Ranges {
		if rg.Start >= len(lines) {
			fmt.Fprintf(sb, "_%s are beyond the current end of the file._\n\n", formatRange(rg))
			continue
		}
		end := rg.End
		if end > len(lines)-1 {
			end = len(lines) - 1
		}

		fmt.Fprintf(sb, "_%s:_\n\n", formatRange(rg))
		fmt.Fprintf(sb, "```%s\n", lang)
		for _, line := range lines[rg.Start : end+1] {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("```\n\n")
	}
}

// formatRange renders one zero-based range in the one-based form people
// read in editors.
func formatRange(r lesson.LineRange) string {
	if r.Start == r.End {
		return fmt.Sprintf("Line %d", r.Start+1)
	}
	return fmt.Sprintf("Lines %d-%d", r.Start+1, r.End+1)
}

// formatRanges renders a range list like "lines 3-7, 12".
func formatRanges(ranges []lesson.LineRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		if r.Start == r.End {
			parts[i] = fmt.Sprintf("%d", r.Start+1)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Start+1, r.End+1)
		}
	}
	return "lines " + strings.Join(parts, ", ")
}
