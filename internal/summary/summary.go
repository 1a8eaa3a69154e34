// Package summary renders opened files as one coloured box per changelist.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/terminal"
)

// palette cycles through the base ANSI colours then their bright variants.
var palette = []lipgloss.Color{"4", "2", "5", "6", "3", "12", "10", "13", "14", "11"}

// Write prints the boxes for groups to w, coloured when w supports it.
func Write(w io.Writer, groups []p4.ChangeGroup) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	for _, line := range Boxes(groups, r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Boxes lays out every group in a box of one shared width. Boxes after the
// first are joined to the previous one, and only the last is closed.
func Boxes(groups []p4.ChangeGroup, r *lipgloss.Renderer) []string {
	width := 0
	for _, g := range groups {
		inner := terminal.VisualWidth(header(g))
		for _, f := range g.Files {
			inner = max(inner, terminal.VisualWidth(f.Line()))
		}
		width = max(width, inner+4)
	}

	var out []string
	for i, g := range groups {
		color := r.NewStyle().Foreground(palette[i%len(palette)])
		title := color.Bold(true)

		if i == 0 {
			out = append(out, color.Render("┌"+strings.Repeat("─", width)+"┐"))
		} else {
			out = append(out, color.Render("├"+strings.Repeat("─", width)+"┤"))
		}
		out = append(out, row(color, title.Render(header(g)), width))
		for _, f := range g.Files {
			out = append(out, row(color, color.Render(f.Line()), width))
		}
		if i == len(groups)-1 {
			out = append(out, color.Render("└"+strings.Repeat("─", width)+"┘"))
		}
	}
	return out
}

func header(g p4.ChangeGroup) string {
	return " " + g.Header() + " "
}

// row frames already styled content between the box's side borders.
func row(border lipgloss.Style, content string, width int) string {
	pad := max(0, width-2-terminal.VisualWidth(content))
	return border.Render("│ ") + content + border.Render(strings.Repeat(" ", pad)+" │")
}
