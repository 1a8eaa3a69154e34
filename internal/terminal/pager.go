package terminal

import (
	"fmt"
	"strings"
)

// Row is one pager line split into aligned columns.
type Row struct {
	Fields []string
}

// PagerOptions configures NewPager.
type PagerOptions struct {
	// Height caps the viewport. Zero fills the terminal.
	Height int
	Title  string
}

// Pager shows rows in a scrolling viewport with substring search.
type Pager struct {
	opts   PagerOptions
	rows   []Row
	lower  [][]string
	widths []int

	top    int
	height int

	query   string
	matches []int
	isMatch map[int]bool
	current int
	editing bool
	input   []rune
}

// NewPager builds a pager over rows. Column widths are measured across
// every row, not only the visible ones.
func NewPager(rows []Row, opts PagerOptions) *Pager {
	p := &Pager{opts: opts, rows: rows, current: -1, height: 1}
	p.lower = make([][]string, len(rows))
	for i, r := range rows {
		p.lower[i] = make([]string, len(r.Fields))
		for j, f := range r.Fields {
			p.lower[i][j] = strings.ToLower(f)
			if j >= len(p.widths) {
				p.widths = append(p.widths, 0)
			}
			p.widths[j] = max(p.widths[j], VisualWidth(f))
		}
	}
	return p
}

// Top returns the index of the first visible row.
func (p *Pager) Top() int { return p.top }

// Matches returns the rows matching the committed query in ascending order.
func (p *Pager) Matches() []int { return p.matches }

// CurrentMatch returns the position in Matches of the active match, or -1.
func (p *Pager) CurrentMatch() int { return p.current }

// Run draws the pager until the user quits.
func (p *Pager) Run(s *Session) (err error) {
	t := s.Terminal()
	frame := NewFrame(t)
	defer func() {
		if cerr := frame.Clear(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for {
		lines, err := p.render(t)
		if err != nil {
			return err
		}
		if err := frame.Draw(lines); err != nil {
			return err
		}
		key, err := t.ReadKey()
		if err != nil {
			return ioErr("read key", err)
		}
		if p.editing {
			p.editKey(key)
			continue
		}
		if p.handle(key) {
			return nil
		}
	}
}

// handle applies a navigation key and reports whether to quit.
func (p *Pager) handle(key Key) bool {
	switch {
	case key.Code == KeyEscape, key.Code == KeyCtrlC, key.Is('q'):
		return true
	case key.Code == KeyUp, key.Is('k'):
		p.scroll(p.top - 1)
	case key.Code == KeyDown, key.Is('j'), key.Code == KeyEnter:
		p.scroll(p.top + 1)
	case key.Code == KeyPageUp, key.Is('b'):
		p.scroll(p.top - p.height)
	case key.Code == KeyPageDown, key.Is('f'), key.Is(' '):
		p.scroll(p.top + p.height)
	case key.Code == KeyHome, key.Is('g'):
		p.scroll(0)
	case key.Code == KeyEnd, key.Is('G'):
		p.scroll(len(p.rows) - p.height)
	case key.Is('/'):
		p.editing = true
		p.input = p.input[:0]
	case key.Is('n'):
		p.step(1)
	case key.Is('p'), key.Is('N'):
		p.step(-1)
	}
	return false
}

func (p *Pager) editKey(key Key) {
	switch key.Code {
	case KeyEscape, KeyCtrlC:
		p.editing = false
	case KeyEnter:
		p.editing = false
		p.search(string(p.input))
	case KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case KeyRune:
		p.input = append(p.input, key.Rune)
	}
}

// search commits a query. An empty query clears the previous search.
func (p *Pager) search(query string) {
	p.query = strings.ToLower(query)
	p.matches = nil
	p.isMatch = make(map[int]bool)
	p.current = -1
	if p.query == "" {
		return
	}
	for i, fields := range p.lower {
		for _, f := range fields {
			if strings.Contains(f, p.query) {
				p.matches = append(p.matches, i)
				p.isMatch[i] = true
				break
			}
		}
	}
	if len(p.matches) > 0 {
		p.current = 0
		p.center(p.matches[0])
	}
}

func (p *Pager) step(dir int) {
	n := len(p.matches)
	if n == 0 {
		return
	}
	p.current = ((p.current+dir)%n + n) % n
	p.center(p.matches[p.current])
}

func (p *Pager) center(line int) {
	p.scroll(line - p.height/2)
}

// scroll moves the viewport, clamped so it never runs past either end.
func (p *Pager) scroll(top int) {
	p.top = max(0, min(top, len(p.rows)-p.height))
}

func (p *Pager) viewport(rows int) int {
	avail := rows - 2
	if p.opts.Title != "" {
		avail--
	}
	if p.opts.Height > 0 {
		avail = min(avail, p.opts.Height)
	}
	return max(1, avail)
}

func (p *Pager) render(t Terminal) ([]string, error) {
	width, rows, err := t.Size()
	if err != nil {
		return nil, ioErr("size", err)
	}
	p.height = p.viewport(rows)
	p.scroll(p.top)

	var lines []string
	if p.opts.Title != "" {
		lines = append(lines, StyleBold.Render(Truncate(p.opts.Title, width)))
	}
	end := min(p.top+p.height, len(p.rows))
	for i := p.top; i < end; i++ {
		lines = append(lines, p.lineStyle(i).Render(Truncate(p.format(i), width)))
	}
	lines = append(lines, StyleStatus.Render(Fit(p.status(end), width)))
	return lines, nil
}

func (p *Pager) lineStyle(i int) Style {
	switch {
	case p.current >= 0 && p.matches[p.current] == i:
		return StyleActiveMatch
	case p.isMatch[i]:
		return StyleMatch
	}
	return StyleDefault
}

// format aligns a row's columns. The last column is left unpadded.
func (p *Pager) format(i int) string {
	fields := p.rows[i].Fields
	var b strings.Builder
	for j, f := range fields {
		if j > 0 {
			b.WriteString("  ")
		}
		if j == len(fields)-1 {
			b.WriteString(f)
		} else {
			b.WriteString(PadRight(f, p.widths[j]))
		}
	}
	return b.String()
}

func (p *Pager) status(end int) string {
	if p.editing {
		return "/" + string(p.input)
	}
	first := p.top + 1
	if len(p.rows) == 0 {
		first = 0
	}
	s := fmt.Sprintf(" %d-%d of %d", first, end, len(p.rows))
	if p.query != "" {
		if p.current >= 0 {
			s += fmt.Sprintf(" · match %d/%d for %q", p.current+1, len(p.matches), p.query)
		} else {
			s += fmt.Sprintf(" · no matches for %q", p.query)
		}
	}
	return s + " · / search · n/p next/prev · q quit"
}
