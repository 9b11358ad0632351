// Package tui provides the Bubble Tea walkthrough for reviewing a lesson:
// one note at a time, code excerpt on top, rendered note below.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tallgren/codewalk/internal/display"
	"github.com/tallgren/codewalk/internal/editor"
	"github.com/tallgren/codewalk/internal/review"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Heading of the focused pane
	focusedPaneStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	// Heading of the unfocused pane
	blurredPaneStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Panes ─────────────

type paneID int

const (
	paneCode paneID = iota
	paneNote
	paneCount
)

var paneNames = [paneCount]string{"Code", "Note"}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the review walkthrough. The
// navigator owns position and display side effects; the model only renders
// what the shared display currently holds.
type Model struct {
	nav    *review.Navigator
	disp   *display.Display
	opener *editor.Opener
	root   string

	step     review.Step
	notice   string
	warnings []string

	focus     paneID
	viewports [paneCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates the walkthrough model. The navigator must already be started
// and step be its first Step.
func New(nav *review.Navigator, disp *display.Display, opener *editor.Opener, root string, step review.Step) Model {
	return Model{
		nav:      nav,
		disp:     disp,
		opener:   opener,
		root:     root,
		step:     step,
		warnings: step.Warnings,
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.nav.Stop()
			return m, tea.Quit

		case "n", "right", " ", "enter":
			step, err := m.nav.Next()
			if err != nil {
				m.nav.Stop()
				return m, tea.Quit
			}
			m.applyStep(step, "end of lesson")
			return m, nil

		case "p", "left":
			step, err := m.nav.Prev()
			if err != nil {
				m.nav.Stop()
				return m, tea.Quit
			}
			m.applyStep(step, "start of lesson")
			return m, nil

		case "tab":
			m.focus = (m.focus + 1) % paneCount
			return m, nil

		case "o":
			return m, m.openInEditor()
		}

		var cmd tea.Cmd
		m.viewports[m.focus], cmd = m.viewports[m.focus].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.disp.SetWidth(msg.Width - 2)
		m.initViewports()
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("editor: %v", msg.err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render(
		fmt.Sprintf("  codewalk  %s — step %d/%d", m.nav.Title(), m.step.Index+1, m.step.Total))

	var rows []string
	rows = append(rows, title)
	for i := paneID(0); i < paneCount; i++ {
		label := " " + paneNames[i] + " "
		if i == m.focus {
			rows = append(rows, focusedPaneStyle.Width(m.width).Render(label))
		} else {
			rows = append(rows, blurredPaneStyle.Width(m.width).Render(label))
		}
		rows = append(rows, m.viewports[i].View())
	}
	rows = append(rows, m.statusBar())

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ── Viewport management ───────────────────────────────

func (m *Model) initViewports() {
	// title(1) + 2 pane headings(2) + statusBar(1) = 4 fixed rows
	avail := m.height - 4
	if avail < 2 {
		avail = 2
	}
	codeHeight := avail * 3 / 5
	if codeHeight < 1 {
		codeHeight = 1
	}
	noteHeight := avail - codeHeight
	if noteHeight < 1 {
		noteHeight = 1
	}
	m.viewports[paneCode] = viewport.New(m.width, codeHeight)
	m.viewports[paneNote] = viewport.New(m.width, noteHeight)
	m.rebuild()
}

// applyStep takes the navigator's result after a move. A bounced move keeps
// the panes as they are and only posts the boundary notice.
func (m *Model) applyStep(step review.Step, boundary string) {
	if !step.Moved {
		m.notice = boundary
		return
	}
	m.step = step
	m.notice = ""
	m.warnings = step.Warnings
	m.rebuild()
}

// rebuild refills both panes from the shared display and scrolls the code
// pane to the revealed range.
func (m *Model) rebuild() {
	if !m.ready {
		return
	}

	code := m.disp.Excerpt()
	if code == "" {
		code = dimStyle.Render("  (no code for this step)")
	}
	m.viewports[paneCode].SetContent(code)
	m.viewports[paneCode].SetYOffset(m.disp.RevealOffset())

	note := m.disp.Markdown()
	if note == "" {
		note = dimStyle.Render("  (no note text)")
	}
	m.viewports[paneNote].SetContent(note)
	m.viewports[paneNote].GotoTop()
}

func (m Model) statusBar() string {
	hint := "  n/→ next  p/← prev  tab focus  o edit  q quit"

	extra := ""
	switch {
	case len(m.warnings) > 0:
		extra = warnStyle.Render("  " + strings.Join(m.warnings, "; "))
	case m.notice != "":
		extra = noticeStyle.Render("  " + m.notice)
	}

	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.focus].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(extra) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(
		hint + extra + strings.Repeat(" ", pad) + pct,
	)
}

// ── Editor integration ────────────────────────────────

type editorFinishedMsg struct{ err error }

// openInEditor suspends the walkthrough and opens the current note's file at
// its first marked line. General notes have no file to open.
func (m *Model) openInEditor() tea.Cmd {
	note := m.step.Note
	if !note.IsCode() || m.root == "" {
		m.notice = "no file on this step"
		return nil
	}

	path := filepath.Join(m.root, filepath.FromSlash(note.File))
	line := 0
	if len(note.Ranges) > 0 {
		line = note.Ranges[0].Start + 1
	}
	cmd, err := m.opener.CommandAt(path, line)
	if err != nil {
		m.notice = fmt.Sprintf("editor: %v", err)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// Run starts the walkthrough for an already-started navigator and blocks
// until the reviewer quits. The navigator is stopped on the way out.
func Run(nav *review.Navigator, disp *display.Display, opener *editor.Opener, root string, first review.Step) error {
	p := tea.NewProgram(New(nav, disp, opener, root, first), tea.WithAltScreen())
	_, err := p.Run()
	nav.Stop()
	return err
}
