package summary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/terminal"
)

func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return r
}

func testGroups() []p4.ChangeGroup {
	return p4.GroupByChange([]p4.OpenedFile{
		{Change: "default", DepotFile: "//depot/a.go", Action: "edit", Rev: "3"},
		{Change: "42", DepotFile: "//depot/much/longer/path/b.go", Action: "add", Rev: "1"},
		{Change: "42", DepotFile: "//depot/c.go", Action: "delete"},
	})
}

func TestBoxesShareWidthAndJoin(t *testing.T) {
	lines := Boxes(testGroups(), plainRenderer())

	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[1], " CL default (pending) — 1 file(s) ")
	assert.True(t, strings.HasPrefix(lines[3], "├"))
	assert.True(t, strings.HasSuffix(lines[3], "┤"))
	assert.Contains(t, lines[4], " CL 42 — 2 file(s) ")
	assert.True(t, strings.HasPrefix(lines[6], "└"))

	width := terminal.VisualWidth(lines[0])
	for i, l := range lines {
		assert.Equal(t, width, terminal.VisualWidth(l), "line %d: %q", i, l)
	}

	widest := terminal.VisualWidth(testGroups()[1].Files[0].Line())
	assert.Equal(t, widest+4+2, width)
}

func TestBoxesSingleGroupIsClosed(t *testing.T) {
	groups := p4.GroupByChange([]p4.OpenedFile{{Change: "7", DepotFile: "//x", Action: "edit"}})
	lines := Boxes(groups, plainRenderer())

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[3], "└"))
}

func TestBoxesColoured(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI)

	lines := Boxes(testGroups(), r)
	assert.Contains(t, lines[0], "\x1b[")
	assert.NotEqual(t, lines[0][:10], lines[3][:10], "groups cycle colours")
	assert.Equal(t, terminal.VisualWidth(lines[0]), terminal.VisualWidth(lines[3]))
}

func TestWriteWithoutColour(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, testGroups()))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Equal(t, 7, strings.Count(out, "\n"))
}
