package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rule is one colored substring pattern. Rules are kept in insertion order;
// when two rules' matches overlap, the first-registered rule wins.
type Rule struct {
	Pattern string
	Color   lipgloss.Color
}

// Segment is one non-overlapping styled slice of a line. Offsets are byte
// offsets into the line text. Background (the current search match) takes
// visual precedence over any foreground color.
type Segment struct {
	Start      int
	End        int
	Foreground lipgloss.Color // empty when unstyled
	Background bool
}

// Engine computes styled render segments for a line from an ordered set of
// highlight rules plus one current search pattern.
type Engine struct {
	rules         []Rule
	unusedColors  []string
	searchPattern string
	searchColor   lipgloss.Color
}

// NewEngine creates an engine with no rules and a red search color.
func NewEngine() *Engine {
	unused := make([]string, len(autoColors))
	copy(unused, autoColors)
	return &Engine{
		unusedColors: unused,
		searchColor:  palette["red"],
	}
}

// AddRule registers a highlight rule. With an empty colorName a color is
// drawn from the unused pool; an unrecognized name or an exhausted pool is a
// per-command error, not a fatal one.
func (e *Engine) AddRule(pattern, colorName string) error {
	if pattern == "" {
		return fmt.Errorf("empty highlight pattern")
	}

	var color lipgloss.Color
	if colorName != "" {
		c, ok := LookupColor(colorName)
		if !ok {
			return fmt.Errorf("unknown color %q", colorName)
		}
		color = c
		for i, name := range e.unusedColors {
			if name == colorName {
				e.unusedColors = append(e.unusedColors[:i], e.unusedColors[i+1:]...)
				break
			}
		}
	} else {
		if len(e.unusedColors) == 0 {
			return fmt.Errorf("no unused colors available")
		}
		name := e.unusedColors[len(e.unusedColors)-1]
		e.unusedColors = e.unusedColors[:len(e.unusedColors)-1]
		color = palette[name]
	}

	e.rules = append(e.rules, Rule{Pattern: pattern, Color: color})
	return nil
}

// Rules returns the registered rules in insertion order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// SetSearchPattern sets the pattern rendered with the search background
// color. An empty pattern clears it.
func (e *Engine) SetSearchPattern(pattern string) {
	e.searchPattern = pattern
}

// SearchPattern returns the current search pattern.
func (e *Engine) SearchPattern() string {
	return e.searchPattern
}

// SearchColor returns the background color used for search matches.
func (e *Engine) SearchColor() lipgloss.Color {
	return e.searchColor
}

// SetSearchColor sets the background color used for search matches.
func (e *Engine) SetSearchColor(name string) error {
	c, ok := LookupColor(name)
	if !ok {
		return fmt.Errorf("unknown color %q", name)
	}
	e.searchColor = c
	return nil
}

type span struct {
	start, end int
	color      lipgloss.Color
}

// collect finds the non-overlapping occurrences of pattern in text, left to
// right, each search resuming immediately after the previous match.
func collect(text, pattern string, color lipgloss.Color) []span {
	if pattern == "" {
		return nil
	}
	var spans []span
	from := 0
	for {
		i := strings.Index(text[from:], pattern)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(pattern)
		spans = append(spans, span{start: start, end: end, color: color})
		from = end
	}
	return spans
}

// HasMatches reports whether any rule or the search pattern occurs in text.
func (e *Engine) HasMatches(text string) bool {
	if e.searchPattern != "" && strings.Contains(text, e.searchPattern) {
		return true
	}
	for _, r := range e.rules {
		if strings.Contains(text, r.Pattern) {
			return true
		}
	}
	return false
}

// Segments decomposes text into adjacent non-overlapping render segments.
// A segment carries the background flag when its start offset falls inside a
// search-pattern match, and the foreground color of the first rule whose
// match covers its start offset.
func (e *Engine) Segments(text string) []Segment {
	var fg []span
	for _, r := range e.rules {
		fg = append(fg, collect(text, r.Pattern, r.Color)...)
	}
	bg := collect(text, e.searchPattern, e.searchColor)

	boundarySet := map[int]struct{}{0: {}, len(text): {}}
	for _, s := range fg {
		boundarySet[s.start] = struct{}{}
		boundarySet[s.end] = struct{}{}
	}
	for _, s := range bg {
		boundarySet[s.start] = struct{}{}
		boundarySet[s.end] = struct{}{}
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	var segments []Segment
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if start >= end {
			continue
		}

		seg := Segment{Start: start, End: end}
		for _, s := range bg {
			if start >= s.start && start < s.end {
				seg.Background = true
				break
			}
		}
		for _, s := range fg {
			if start >= s.start && start < s.end {
				seg.Foreground = s.color
				break
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// Render emits text with segment styling applied, resetting style after
// every styled segment.
func (e *Engine) Render(text string) string {
	var b strings.Builder
	for _, seg := range e.Segments(text) {
		chunk := text[seg.Start:seg.End]
		if !seg.Background && seg.Foreground == "" {
			b.WriteString(chunk)
			continue
		}

		style := lipgloss.NewStyle()
		if seg.Background {
			style = style.Background(e.searchColor)
		}
		if seg.Foreground != "" {
			style = style.Foreground(seg.Foreground)
		}
		b.WriteString(style.Render(chunk))
	}
	return b.String()
}
