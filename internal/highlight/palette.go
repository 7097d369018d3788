package highlight

import "github.com/charmbracelet/lipgloss"

// palette maps the bounded set of recognized color names to the standard
// 16-color terminal palette.
var palette = map[string]lipgloss.Color{
	"black":        lipgloss.Color("0"),
	"dark_red":     lipgloss.Color("1"),
	"dark_green":   lipgloss.Color("2"),
	"dark_yellow":  lipgloss.Color("3"),
	"dark_blue":    lipgloss.Color("4"),
	"dark_magenta": lipgloss.Color("5"),
	"dark_cyan":    lipgloss.Color("6"),
	"grey":         lipgloss.Color("7"),
	"dark_grey":    lipgloss.Color("8"),
	"red":          lipgloss.Color("9"),
	"green":        lipgloss.Color("10"),
	"yellow":       lipgloss.Color("11"),
	"blue":         lipgloss.Color("12"),
	"magenta":      lipgloss.Color("13"),
	"cyan":         lipgloss.Color("14"),
	"white":        lipgloss.Color("15"),
}

// autoColors is the pool drawn from when a highlight rule is added without an
// explicit color. Assignment pops from the end of the remaining pool.
var autoColors = []string{
	"red", "green", "yellow", "blue", "magenta", "cyan",
	"dark_yellow", "dark_cyan", "dark_green",
}

// LookupColor resolves a color name against the palette.
func LookupColor(name string) (lipgloss.Color, bool) {
	c, ok := palette[name]
	return c, ok
}
