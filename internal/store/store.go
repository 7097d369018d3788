package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/loglens/internal/index"
	llio "github.com/user/loglens/internal/io"
)

// noVisibleLines is the placeholder text returned when every line in the
// store is hidden, so the renderer always has one line to anchor a cursor to.
const noVisibleLines = "No visible lines"

// LogStore owns one mapped file, its line index and the visibility overlay.
// It is the single owning entity for a viewed file: the buffer is immutable
// for the store's lifetime and the store is never resized or remapped.
// A store assumes exactly one mutable handle is alive at a time; it performs
// no locking.
type LogStore struct {
	file    *llio.MappedFile
	idx     *index.LineIndex
	overlay *VisibilityOverlay
}

// Open maps a file and builds its line index. Failure here is fatal for the
// view being opened; there is no retry.
func Open(path string) (*LogStore, error) {
	file, err := llio.OpenMapped(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	idx, err := index.BuildLineIndex(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("index %s: %w", path, err)
	}

	return &LogStore{
		file:    file,
		idx:     idx,
		overlay: NewVisibilityOverlay(idx.LineCount()),
	}, nil
}

// Close releases the mapping.
func (s *LogStore) Close() error {
	return s.file.Close()
}

// Path returns the underlying file path.
func (s *LogStore) Path() string {
	return s.file.Path()
}

// LineCount returns the total number of logical lines, always >= 1.
func (s *LogStore) LineCount() int {
	return s.idx.LineCount()
}

// LineText returns the decoded text of a line. It reports false for
// out-of-range indices and for lines that are not valid UTF-8.
func (s *LogStore) LineText(lineNum int) (string, bool) {
	return s.idx.LineText(lineNum)
}

// LineByteLength returns the trimmed byte length of a line.
func (s *LogStore) LineByteLength(lineNum int) int {
	return s.idx.LineByteLength(lineNum)
}

// VisibleLineCount returns the number of currently visible lines.
func (s *LogStore) VisibleLineCount() int {
	return s.overlay.VisibleCount()
}

// IsVisible reports whether a line is visible.
func (s *LogStore) IsVisible(lineNum int) bool {
	return s.overlay.IsVisible(lineNum)
}

// HideLine hides a single line.
func (s *LogStore) HideLine(lineNum int) {
	s.overlay.SetVisible(lineNum, false)
}

// ShowLine shows a single line.
func (s *LogStore) ShowLine(lineNum int) {
	s.overlay.SetVisible(lineNum, true)
}

// ShowAll makes every line visible.
func (s *LogStore) ShowAll() {
	s.overlay.SetAllVisible(true)
}

// HideAll hides every line.
func (s *LogStore) HideAll() {
	s.overlay.SetAllVisible(false)
}

// Isolate shows only the given line, snapshotting the mask first.
func (s *LogStore) Isolate(lineNum int) {
	s.overlay.Isolate(lineNum)
}

// Restore undoes the last Isolate. It reports whether there was a snapshot.
func (s *LogStore) Restore() bool {
	return s.overlay.Restore()
}

// HideMatching hides lines whose text satisfies the predicate.
func (s *LogStore) HideMatching(pred func(string) bool) {
	s.overlay.HideMatching(s.idx.LineText, pred)
}

// ShowMatching shows lines whose text satisfies the predicate and hides all
// others.
func (s *LogStore) ShowMatching(pred func(string) bool) {
	s.overlay.ShowMatching(s.idx.LineText, pred)
}

// lineView materializes the transient view of one line. An unreadable line
// keeps its indexed byte length behind empty text.
func (s *LogStore) lineView(lineNum int) Line {
	text, _ := s.idx.LineText(lineNum)
	return Line{
		Number: lineNum,
		Text:   text,
		Length: s.idx.LineByteLength(lineNum),
	}
}

// VisibleWindow walks forward from startLine collecting up to maxCount
// visible lines. If nothing is visible at or after startLine it falls back
// to the nearest visible line before it, and if the store has no visible
// lines at all it returns a single placeholder line so the caller always has
// something to anchor a cursor to.
func (s *LogStore) VisibleWindow(startLine, maxCount int) []Line {
	var result []Line

	start := startLine
	if start > s.idx.LineCount() {
		start = s.idx.LineCount()
	}
	if start < 0 {
		start = 0
	}

	for i := start; i < s.idx.LineCount(); i++ {
		if !s.overlay.IsVisible(i) {
			continue
		}
		result = append(result, s.lineView(i))
		if len(result) >= maxCount {
			break
		}
	}

	if len(result) == 0 {
		for i := startLine - 1; i >= 0; i-- {
			if s.overlay.IsVisible(i) {
				result = append(result, s.lineView(i))
				break
			}
		}
	}

	if len(result) == 0 {
		result = append(result, Line{Number: 0, Text: noVisibleLines, Length: len(noVisibleLines)})
	}

	return result
}

// Search scans for the first visible line containing pattern as a literal
// substring, starting at fromLine. When includeCurrent is false the scan
// starts one line past fromLine in the given direction. Hidden lines and
// lines that do not decode are skipped. A backward search that would start
// before line 0 is a defined no-match.
func (s *LogStore) Search(pattern string, fromLine int, includeCurrent bool, direction SearchDirection) (int, bool) {
	offset := 1
	if includeCurrent {
		offset = 0
	}

	switch direction {
	case SearchForward:
		for i := fromLine + offset; i < s.idx.LineCount(); i++ {
			if !s.overlay.IsVisible(i) {
				continue
			}
			if text, ok := s.idx.LineText(i); ok && strings.Contains(text, pattern) {
				return i, true
			}
		}
	case SearchBackward:
		for i := fromLine - offset; i >= 0; i-- {
			if !s.overlay.IsVisible(i) {
				continue
			}
			if text, ok := s.idx.LineText(i); ok && strings.Contains(text, pattern) {
				return i, true
			}
		}
	}
	return 0, false
}

// EndOfFileWindow computes the pagination window anchored at the last visible
// line of the file.
func (s *LogStore) EndOfFileWindow(rows, cols, maxRowsPerLine int) (int, int) {
	return s.WindowEndingAt(s.idx.LineCount(), rows, cols, maxRowsPerLine)
}

// WindowEndingAt computes the window of visible lines that ends at the last
// visible line before endPos (exclusive) and fits in the given row budget.
//
// The anchor line may use the entire budget as its individual row cap; every
// earlier line is capped at maxRowsPerLine. Walking backward, a line becomes
// the start candidate while the accumulated rows still fit the budget; the
// walk stops as soon as the budget is reached. If even the anchor overflows,
// the window is the anchor alone. With no visible lines the sentinel (0, 0)
// is returned.
func (s *LogStore) WindowEndingAt(endPos, rows, cols, maxRowsPerLine int) (int, int) {
	endLine := -1
	for i := endPos - 1; i >= 0; i-- {
		if s.overlay.IsVisible(i) {
			endLine = i
			break
		}
	}
	if endLine < 0 {
		return 0, 0
	}

	rowCount := WrapRows(s.idx.LineByteLength(endLine), cols, maxRowsPerLine, rows)

	startLine := -1
	for i := endLine - 1; i >= 0; i-- {
		if s.overlay.IsVisible(i) {
			rowCount += WrapRows(s.idx.LineByteLength(i), cols, maxRowsPerLine, maxRowsPerLine)
		}

		slog.Debug("window walk", "line", i, "rows", rowCount, "budget", rows)

		if rowCount <= rows {
			startLine = i
		}
		if rowCount >= rows {
			break
		}
	}

	if startLine < 0 {
		// The anchor alone already exceeds the budget.
		return endLine, endLine
	}
	return startLine, endLine
}
