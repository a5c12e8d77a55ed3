// Package fstree holds the selection tree: an immutable snapshot of a
// directory with per-node expand and tri-state selection state, and the pure
// transformations that derive a new tree from the previous one.
package fstree

import "slices"

// SelectionState is the resolved checkbox state of a node.
type SelectionState int

const (
	// Unchecked means neither the node nor any descendant file is selected.
	Unchecked SelectionState = iota
	// Checked means the node and every descendant are selected.
	Checked
	// PartiallyChecked is only ever held by a directory whose children disagree.
	PartiallyChecked
)

const (
	uncheckedLabel        = "unchecked"
	checkedLabel          = "checked"
	partiallyCheckedLabel = "partially-checked"
)

// String returns the lower-case label of the state.
func (state SelectionState) String() string {
	switch state {
	case Checked:
		return checkedLabel
	case PartiallyChecked:
		return partiallyCheckedLabel
	default:
		return uncheckedLabel
	}
}

// MarshalText encodes the state by its label.
func (state SelectionState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

// Node is either a *Directory or a *File. The set of implementations is closed.
type Node interface {
	Name() string
	Path() string
	State() SelectionState
	sealed()
}

// File is a leaf. It can only be checked or unchecked.
type File struct {
	name    string
	path    string
	checked bool
}

// NewFile returns an unchecked file node.
func NewFile(name, path string) *File {
	return &File{name: name, path: path}
}

func (file *File) Name() string { return file.name }

func (file *File) Path() string { return file.path }

// State reports Checked or Unchecked.
func (file *File) State() SelectionState {
	if file.checked {
		return Checked
	}
	return Unchecked
}

func (file *File) sealed() {}

func (file *File) withChecked(checked bool) *File {
	if file.checked == checked {
		return file
	}
	return &File{name: file.name, path: file.path, checked: checked}
}

// Directory is a container node. Its state is derived from its children and
// is never assigned from outside this package.
type Directory struct {
	name     string
	path     string
	children []Node
	open     bool
	state    SelectionState
}

// NewDirectory returns a closed, unchecked directory owning the given children.
// The caller must not retain or modify the children slice afterwards.
func NewDirectory(name, path string, children []Node) *Directory {
	return &Directory{name: name, path: path, children: children}
}

func (directory *Directory) Name() string { return directory.name }

func (directory *Directory) Path() string { return directory.path }

func (directory *Directory) State() SelectionState { return directory.state }

// IsOpen reports the expand/collapse state.
func (directory *Directory) IsOpen() bool { return directory.open }

// Children returns a copy of the child list in stored order.
func (directory *Directory) Children() []Node {
	return slices.Clone(directory.children)
}

// ChildCount returns the number of direct children.
func (directory *Directory) ChildCount() int { return len(directory.children) }

// Child returns the child at index.
func (directory *Directory) Child(index int) Node { return directory.children[index] }

func (directory *Directory) sealed() {}

func (directory *Directory) clone() *Directory {
	copied := *directory
	return &copied
}
