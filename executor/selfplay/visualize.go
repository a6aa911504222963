package selfplay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekfront/rules"
)

var (
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	// Snake colours, cycled by index.
	snakeStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Render draws b top row first, one colour per snake, with a line of
// health and size per snake underneath.
func Render(b *rules.Board, turn int) string {
	w, h := b.Width(), b.Height()
	cells := make([]string, w*h)
	dot := emptyStyle.Render("·")
	for i := range cells {
		cells[i] = dot
	}
	for _, f := range b.Food {
		cells[int(f.Y)*w+int(f.X)] = foodStyle.Render("●")
	}
	for i := len(b.Snakes) - 1; i >= 0; i-- {
		style := snakeStyles[i%len(snakeStyles)]
		body := b.Snakes[i].Body.Cells()
		for j := len(body) - 1; j >= 0; j-- {
			c := body[j]
			if !b.InBounds(c) {
				continue
			}
			glyph := "■"
			if j == 0 {
				glyph = "◆"
			}
			cells[int(c.Y)*w+int(c.X)] = style.Render(glyph)
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("turn %d", turn)))
	sb.WriteByte('\n')
	for y := h - 1; y >= 0; y-- {
		sb.WriteString(strings.Join(cells[y*w:(y+1)*w], " "))
		sb.WriteByte('\n')
	}
	for i := range b.Snakes {
		s := &b.Snakes[i]
		style := snakeStyles[i%len(snakeStyles)]
		sb.WriteString(style.Render(fmt.Sprintf("%-10s health=%3d size=%d", s.ID, s.Health, s.Size())))
		sb.WriteByte('\n')
	}
	return sb.String()
}
