package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cubes/internal/core"
)

// Styles shared by the play, playback and browser views.
var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			MarginBottom(1)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
)

// Screen colors of the game elements drawn by ScreenRenderer. Pieces use
// their catalog color.
const (
	frameColor   = core.ColorGray
	stackColor   = core.ColorWhite
	emptyColor   = core.ColorGray
	labelColor   = core.ColorGray
	titleColor   = core.ColorBrightCyan
	overlayColor = core.ColorBrightYellow
	statusColor  = core.ColorYellow
)

// palette holds the ANSI 256 code of every core.Color. ColorDefault is
// left unstyled.
var palette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorPurple:        "129",
}

var paletteStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		styles[i] = lipgloss.NewStyle()
		if code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(paletteStyles) {
		return paletteStyles[c]
	}
	return paletteStyles[core.ColorDefault]
}

// browserTableStyles styles the replay browser table.
func browserTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// RenderScreen converts a Screen buffer to a styled string, one line per
// row. Adjacent cells of the same color share one escape sequence.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	for y := range rows {
		rows[y] = renderRow(s, y)
	}
	return strings.Join(rows, "\n")
}

func renderRow(s *core.Screen, y int) string {
	var sb, run strings.Builder
	cur := core.ColorDefault

	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
		}
	}
	for x := range s.Width() {
		c := s.GetCell(x, y)
		if c.Color != cur {
			flush()
			cur = c.Color
		}
		run.WriteRune(c.Rune)
	}
	flush()
	return sb.String()
}
