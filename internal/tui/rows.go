package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/ctxpick/internal/fstree"
)

const (
	indentUnit       = "  "
	openChevron      = "▾"
	closedChevron    = "▸"
	noChevron        = " "
	uncheckedBox     = "[ ]"
	checkedBox       = "[x]"
	partialBox       = "[-]"
	directoryMarker  = "/"
	rowPartSeparator = " "
)

// row is one visible line of the tree pane.
type row struct {
	node  fstree.Node
	depth int
}

// visibleRows flattens the open part of the tree. Children are listed
// directories first, then by name.
func visibleRows(root fstree.Node) []row {
	if root == nil {
		return nil
	}
	var rows []row
	var visit func(node fstree.Node, depth int)
	visit = func(node fstree.Node, depth int) {
		rows = append(rows, row{node: node, depth: depth})
		directory, isDirectory := node.(*fstree.Directory)
		if !isDirectory || !directory.IsOpen() {
			return
		}
		for _, child := range displayOrder(directory.Children()) {
			visit(child, depth+1)
		}
	}
	visit(root, 0)
	return rows
}

func displayOrder(children []fstree.Node) []fstree.Node {
	sort.SliceStable(children, func(left, right int) bool {
		_, leftIsDirectory := children[left].(*fstree.Directory)
		_, rightIsDirectory := children[right].(*fstree.Directory)
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		return children[left].Name() < children[right].Name()
	})
	return children
}

func checkbox(state fstree.SelectionState) string {
	switch state {
	case fstree.Checked:
		return checkedStyle.Render(checkedBox)
	case fstree.PartiallyChecked:
		return partialStyle.Render(partialBox)
	default:
		return uncheckedBox
	}
}

func renderRow(current row, focused bool) string {
	chevron := noChevron
	label := current.node.Name()
	nameStyle := lipgloss.NewStyle()
	if directory, isDirectory := current.node.(*fstree.Directory); isDirectory {
		chevron = closedChevron
		if directory.IsOpen() {
			chevron = openChevron
		}
		label += directoryMarker
		nameStyle = directoryStyle
	}
	if focused {
		nameStyle = cursorStyle
	}
	name := nameStyle.Render(label)
	return strings.Repeat(indentUnit, current.depth) +
		strings.Join([]string{chevron, checkbox(current.node.State()), name}, rowPartSeparator)
}
