package terminal

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

// Mode selects how many leaves a List returns.
type Mode int

const (
	SingleSelect Mode = iota
	MultiSelect
)

// Leaf is one selectable row.
type Leaf struct {
	Label      string
	Value      string
	Annotation string
}

// Group is a header and the leaves listed under it. Groups with no leaves
// are dropped.
type Group struct {
	Title       string
	Description string
	Style       Style
	Leaves      []Leaf
}

// ItemKind tells headers from leaves in the flat item sequence.
type ItemKind int

const (
	ItemHeader ItemKind = iota
	ItemLeaf
)

// Item is one row of the list. Group indexes the list's groups; Leaf is the
// leaf's position across all groups and is only meaningful for ItemLeaf.
type Item struct {
	Kind  ItemKind
	Group int
	Leaf  int
}

// ListOptions configures NewList.
type ListOptions struct {
	Mode  Mode
	Title string
}

// Selection is a confirmed choice. Indices are leaf positions in ascending
// order; Values are the matching Leaf.Value strings.
type Selection struct {
	Indices []int
	Values  []string
}

// Empty reports whether nothing was chosen.
func (s Selection) Empty() bool { return len(s.Indices) == 0 }

// checkState is a header's aggregated selection.
type checkState int

const (
	checkEmpty checkState = iota
	checkPartial
	checkFull
)

var checkSymbols = [...]string{
	checkEmpty:   "○",
	checkPartial: "◐",
	checkFull:    "●",
}

// List is a keyboard driven selector over grouped leaves.
type List struct {
	opts        ListOptions
	groups      []Group
	items       []Item
	leaves      []Leaf
	groupLeaves [][]int
	selected    map[int]bool
	cursor      int
	top         int
}

// NewList flattens groups into headers followed by their leaves.
// It returns ErrNoItems when there is nothing to select.
func NewList(groups []Group, opts ListOptions) (*List, error) {
	l := &List{opts: opts, selected: make(map[int]bool)}
	for _, g := range groups {
		if len(g.Leaves) == 0 {
			continue
		}
		gi := len(l.groups)
		l.groups = append(l.groups, g)
		l.items = append(l.items, Item{Kind: ItemHeader, Group: gi})

		members := make([]int, 0, len(g.Leaves))
		for _, leaf := range g.Leaves {
			li := len(l.leaves)
			l.leaves = append(l.leaves, leaf)
			l.items = append(l.items, Item{Kind: ItemLeaf, Group: gi, Leaf: li})
			members = append(members, li)
		}
		l.groupLeaves = append(l.groupLeaves, members)
	}
	if len(l.leaves) == 0 {
		return nil, ErrNoItems
	}
	return l, nil
}

// Items returns the flat navigation order.
func (l *List) Items() []Item { return l.items }

// Cursor returns the index of the highlighted item.
func (l *List) Cursor() int { return l.cursor }

// Run draws the list and handles keys until the user confirms or cancels.
// ok is false when cancelled. A confirmed multi-select may be empty.
func (l *List) Run(s *Session) (sel Selection, ok bool, err error) {
	t := s.Terminal()
	frame := NewFrame(t)
	defer func() {
		if cerr := frame.Clear(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for {
		lines, err := l.render(t)
		if err != nil {
			return Selection{}, false, err
		}
		if err := frame.Draw(lines); err != nil {
			return Selection{}, false, err
		}

		key, err := t.ReadKey()
		if err != nil {
			return Selection{}, false, ioErr("read key", err)
		}
		if done, confirmed := l.handle(key); done {
			if !confirmed {
				return Selection{}, false, nil
			}
			return l.selection(), true, nil
		}
	}
}

// handle applies one key. done reports that the loop should end; confirmed
// separates Enter from a cancel.
func (l *List) handle(key Key) (done, confirmed bool) {
	switch {
	case key.Code == KeyEscape, key.Code == KeyCtrlC, key.Is('q'):
		return true, false
	case key.Code == KeyUp, key.Is('k'):
		l.move(-1)
	case key.Code == KeyDown, key.Is('j'):
		l.move(1)
	case key.Code == KeyTab:
		l.jumpHeader(1)
	case key.Code == KeyBacktab:
		l.jumpHeader(-1)
	case key.Code == KeyHome:
		l.cursor = 0
	case key.Code == KeyEnd:
		l.cursor = len(l.items) - 1
	case key.Is(' '):
		if l.opts.Mode == MultiSelect {
			l.toggle()
		}
	case key.Code == KeyEnter:
		if l.opts.Mode == MultiSelect {
			return true, true
		}
		if l.items[l.cursor].Kind == ItemLeaf {
			return true, true
		}
	}
	return false, false
}

func (l *List) move(delta int) {
	n := len(l.items)
	l.cursor = ((l.cursor+delta)%n + n) % n
}

func (l *List) jumpHeader(dir int) {
	n := len(l.items)
	for step := 1; step <= n; step++ {
		i := ((l.cursor+dir*step)%n + n) % n
		if l.items[i].Kind == ItemHeader {
			l.cursor = i
			return
		}
	}
}

func (l *List) toggle() {
	it := l.items[l.cursor]
	if it.Kind == ItemLeaf {
		if l.selected[it.Leaf] {
			delete(l.selected, it.Leaf)
		} else {
			l.selected[it.Leaf] = true
		}
		return
	}
	members := l.groupLeaves[it.Group]
	if l.state(it.Group) == checkFull {
		for _, li := range members {
			delete(l.selected, li)
		}
		return
	}
	for _, li := range members {
		l.selected[li] = true
	}
}

// state derives a header's checkbox from its leaves.
func (l *List) state(group int) checkState {
	count := 0
	for _, li := range l.groupLeaves[group] {
		if l.selected[li] {
			count++
		}
	}
	switch count {
	case 0:
		return checkEmpty
	case len(l.groupLeaves[group]):
		return checkFull
	}
	return checkPartial
}

func (l *List) selection() Selection {
	if l.opts.Mode == SingleSelect {
		li := l.items[l.cursor].Leaf
		return Selection{Indices: []int{li}, Values: []string{l.leaves[li].Value}}
	}
	sel := Selection{Indices: []int{}, Values: []string{}}
	for li, leaf := range l.leaves {
		if l.selected[li] {
			sel.Indices = append(sel.Indices, li)
			sel.Values = append(sel.Values, leaf.Value)
		}
	}
	return sel
}

func (l *List) render(t Terminal) ([]string, error) {
	_, rows, err := t.Size()
	if err != nil {
		return nil, ioErr("size", err)
	}

	var lines []string
	if l.opts.Title != "" {
		lines = append(lines, StyleBold.Render(l.opts.Title))
	}

	// Room for items once the title, footer and resting cursor row are placed.
	visible := rows - len(lines) - 2
	visible = max(1, min(visible, len(l.items)))
	l.scrollTo(visible)

	for i := l.top; i < l.top+visible; i++ {
		lines = append(lines, l.renderItem(i))
	}
	lines = append(lines, l.footer())
	return lines, nil
}

// scrollTo keeps the cursor inside a window of the given height.
func (l *List) scrollTo(visible int) {
	if l.cursor < l.top {
		l.top = l.cursor
	}
	if l.cursor >= l.top+visible {
		l.top = l.cursor - visible + 1
	}
	l.top = max(0, min(l.top, len(l.items)-visible))
}

func (l *List) renderItem(i int) string {
	it := l.items[i]
	pointer := "  "
	if i == l.cursor {
		pointer = "❯ "
	}

	var line string
	if it.Kind == ItemHeader {
		g := l.groups[it.Group]
		box := ""
		if l.opts.Mode == MultiSelect {
			box = checkSymbols[l.state(it.Group)] + " "
		}
		line = pointer + box + g.Style.Render(g.Title) +
			StyleDim.Render(fmt.Sprintf(" (%d)", len(l.groupLeaves[it.Group])))
		if g.Description != "" {
			line += " " + StyleDim.Render(g.Description)
		}
	} else {
		leaf := l.leaves[it.Leaf]
		box := ""
		if l.opts.Mode == MultiSelect {
			box = checkSymbols[checkEmpty] + " "
			if l.selected[it.Leaf] {
				box = checkSymbols[checkFull] + " "
			}
		}
		line = pointer + "  " + box + leaf.Label
		if leaf.Annotation != "" {
			line += " " + StyleDim.Render(leaf.Annotation)
		}
	}

	if i == l.cursor {
		// Inner styling would end the highlight early.
		return StyleHighlighted.Render(ansi.Strip(line))
	}
	return line
}

func (l *List) footer() string {
	var hints string
	if l.opts.Mode == MultiSelect {
		hints = "↑/↓ move · tab next group · space toggle · enter confirm · esc cancel"
		return StyleDim.Render(fmt.Sprintf("%d selected · %s", len(l.selected), hints))
	}
	hints = "↑/↓ move · tab next group · enter choose · esc cancel"
	return StyleDim.Render(hints)
}
