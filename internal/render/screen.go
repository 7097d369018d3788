package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/loglens/internal/highlight"
	"github.com/user/loglens/internal/store"
)

// TruncationMarker is appended in place of the tail of a line that exceeds
// its wrap-row allowance.
const TruncationMarker = "[...]"

// Screen lays visible lines out into a fixed number of terminal rows and
// reports which logical line each physical row shows. It writes to a string
// (the bubbletea view is the output sink), so layout and highlighting are
// testable without a terminal.
type Screen struct {
	engine      *highlight.Engine
	syntax      *SyntaxRenderer
	markerStyle lipgloss.Style
}

// NewScreen creates a renderer over the given highlight engine.
func NewScreen(engine *highlight.Engine) *Screen {
	return &Screen{
		engine:      engine,
		markerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// SetSyntax enables chroma source-code rendering for lines that carry no
// highlight or search match. Pass nil to disable.
func (s *Screen) SetSyntax(r *SyntaxRenderer) {
	s.syntax = r
}

// Render lays out lines into at most rows physical rows of the given width.
// Each logical line occupies up to maxRowsPerLine rows (capped further by
// the budget remaining); longer lines are truncated with a marker. The
// returned slice maps each drawn physical row to its logical line number and
// is the only way a cursor row translates back to a line.
func (s *Screen) Render(lines []store.Line, rows, cols, maxRowsPerLine int) (string, []int) {
	var out []string
	var rowMap []int

	rowsLeft := rows
	for _, line := range lines {
		if rowsLeft <= 0 {
			break
		}

		// Wrap math runs on the indexed byte length, the same number the
		// backward-pagination walk uses, so a window that was budgeted to
		// fit also draws to fit. For unreadable lines the length exceeds
		// the empty placeholder text and the extra rows render blank.
		wrap := store.WrapRows(line.Length, cols, maxRowsPerLine, rowsLeft)
		physical := s.renderLine(line.Text, cols, wrap)
		for len(physical) < wrap {
			physical = append(physical, "")
		}
		out = append(out, physical...)
		for range physical {
			rowMap = append(rowMap, line.Number)
		}

		if wrap >= rowsLeft {
			break
		}
		rowsLeft -= wrap
	}

	return strings.Join(out, "\n"), rowMap
}

// renderLine produces up to wrap physical rows for one logical line,
// splitting the highlighted text at column boundaries and truncating when
// the text exceeds its row allowance. On a terminal too narrow to hold the
// truncation marker the text is hard-cut instead. The caller pads short
// results, which occur when the text is the empty placeholder for a line
// whose bytes do not decode.
func (s *Screen) renderLine(text string, cols, wrap int) []string {
	truncated := false
	if len(text) > wrap*cols {
		if cut := wrap*cols - len(TruncationMarker); cut >= 0 {
			text = text[:cut]
			truncated = true
		} else {
			text = text[:wrap*cols]
		}
	}

	if s.syntax != nil && !truncated && !s.engine.HasMatches(text) {
		return s.renderSyntaxRows(text, cols)
	}

	var rows []string
	var cur strings.Builder
	curLen := 0

	emit := func(chunk string, style lipgloss.Style, styled bool) {
		for len(chunk) > 0 {
			if curLen == cols {
				rows = append(rows, cur.String())
				cur.Reset()
				curLen = 0
			}
			n := cols - curLen
			if n > len(chunk) {
				n = len(chunk)
			}
			if styled {
				cur.WriteString(style.Render(chunk[:n]))
			} else {
				cur.WriteString(chunk[:n])
			}
			curLen += n
			chunk = chunk[n:]
		}
	}

	for _, seg := range s.engine.Segments(text) {
		chunk := text[seg.Start:seg.End]
		if !seg.Background && seg.Foreground == "" {
			emit(chunk, lipgloss.Style{}, false)
			continue
		}
		style := lipgloss.NewStyle()
		if seg.Background {
			style = style.Background(s.engine.SearchColor())
		}
		if seg.Foreground != "" {
			style = style.Foreground(seg.Foreground)
		}
		emit(chunk, style, true)
	}

	if truncated {
		cur.WriteString(s.markerStyle.Render(TruncationMarker))
		curLen += len(TruncationMarker)
	}
	rows = append(rows, cur.String())

	return rows
}

// renderSyntaxRows splits text at column boundaries and runs each chunk
// through the chroma renderer.
func (s *Screen) renderSyntaxRows(text string, cols int) []string {
	if text == "" {
		return []string{""}
	}
	var rows []string
	for len(text) > 0 {
		n := cols
		if n > len(text) {
			n = len(text)
		}
		rows = append(rows, s.syntax.Render(text[:n]))
		text = text[n:]
	}
	return rows
}
