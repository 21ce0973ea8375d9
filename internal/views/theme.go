package views

import "github.com/charmbracelet/lipgloss"

// palette maps the symbolic color names carried by time blocks and priorities
// to terminal colors.
var palette = map[string]lipgloss.Color{
	"yellow": lipgloss.Color("11"),
	"purple": lipgloss.Color("13"),
	"green":  lipgloss.Color("10"),
	"orange": lipgloss.Color("208"),
	"blue":   lipgloss.Color("12"),
	"indigo": lipgloss.Color("63"),
	"red":    lipgloss.Color("9"),
}

var (
	blockNameStyle = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

// Colorize renders text in the named palette color, falling back to plain
// text for unknown names.
func Colorize(name, text string) string {
	color, ok := palette[name]
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func colorDot(name string) string {
	return Colorize(name, "●")
}
