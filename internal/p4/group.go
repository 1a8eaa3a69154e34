package p4

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// ChangeGroup is the set of opened files in one changelist.
type ChangeGroup struct {
	Change string
	Files  []OpenedFile
}

// Title names the changelist the way summaries and pickers show it.
func (g ChangeGroup) Title() string {
	if g.Change == DefaultChange {
		return "CL default (pending)"
	}
	return "CL " + g.Change
}

// Header is the title with a file count, e.g. "CL 42 — 3 file(s)".
func (g ChangeGroup) Header() string {
	return fmt.Sprintf("%s — %d file(s)", g.Title(), len(g.Files))
}

// GroupByChange groups files by changelist. The default changelist comes
// first, then numbered changes in ascending order, then any other names.
// Files keep their order within a group.
func GroupByChange(files []OpenedFile) []ChangeGroup {
	index := make(map[string]int)
	var groups []ChangeGroup
	for _, f := range files {
		i, ok := index[f.Change]
		if !ok {
			i = len(groups)
			index[f.Change] = i
			groups = append(groups, ChangeGroup{Change: f.Change})
		}
		groups[i].Files = append(groups[i].Files, f)
	}
	slices.SortStableFunc(groups, func(a, b ChangeGroup) int {
		return CompareChanges(a.Change, b.Change)
	})
	return groups
}

// CompareChanges orders changelist names: default, numbers, then the rest.
func CompareChanges(a, b string) int {
	if a == b {
		return 0
	}
	if a == DefaultChange {
		return -1
	}
	if b == DefaultChange {
		return 1
	}
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}
	return cmp.Compare(a, b)
}

// ActionEmoji returns the icon shown for a file action.
func ActionEmoji(action string) string {
	switch action {
	case "edit":
		return "✏️"
	case "add":
		return "➕"
	case "delete":
		return "🗑️"
	case "integrate":
		return "🔀"
	case "branch":
		return "🌿"
	case "move/add":
		return "📦"
	case "move/delete":
		return "📤"
	}
	return "📄"
}

// Line renders a file as "icon action rev N path".
func (f OpenedFile) Line() string {
	rev := f.Rev
	if rev == "" {
		rev = "-"
	}
	return fmt.Sprintf("%s %-10s %-6s %-4s %s", ActionEmoji(f.Action), f.Action, "rev", rev, f.DepotFile)
}
