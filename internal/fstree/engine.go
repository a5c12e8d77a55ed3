package fstree

// Initialize collapses every directory and clears every selection, keeping the
// structure intact. Already normalized subtrees are shared, not copied.
func Initialize(node Node) Node {
	switch typed := node.(type) {
	case *File:
		return typed.withChecked(false)
	case *Directory:
		children, changed := mapChildren(typed.children, Initialize)
		if !changed && !typed.open && typed.state == Unchecked {
			return typed
		}
		normalized := typed.clone()
		normalized.children = children
		normalized.open = false
		normalized.state = Unchecked
		return normalized
	default:
		return node
	}
}

// ToggleExpand flips the open flag of the directory identified by path.
// Unknown paths and file paths return root unchanged.
func ToggleExpand(root Node, path string) Node {
	updated, _ := rewrite(root, path, func(target Node) Node {
		directory, isDirectory := target.(*Directory)
		if !isDirectory {
			return target
		}
		flipped := directory.clone()
		flipped.open = !directory.open
		return flipped
	})
	return updated
}

// ToggleSelect checks the node identified by path unless it is already
// checked, in which case it is unchecked. A directory pushes the new state to
// every descendant, then every directory state in the tree is re-derived from
// its children. Unknown paths return root unchanged.
func ToggleSelect(root Node, path string) Node {
	cascaded, found := rewrite(root, path, func(target Node) Node {
		nextState := Checked
		if target.State() == Checked {
			nextState = Unchecked
		}
		return cascade(target, nextState)
	})
	if !found {
		return root
	}
	return recompute(cascaded)
}

// Check makes sure the node identified by path ends up checked. It toggles
// only when the node is not already checked, so a partially checked directory
// becomes fully checked and a checked one is left alone.
func Check(root Node, path string) Node {
	target, found := Find(root, path)
	if !found || target.State() == Checked {
		return root
	}
	return ToggleSelect(root, path)
}

// rewrite rebuilds the spine from root to the node whose path matches,
// replacing that node with transform's result. Siblings off the spine are
// shared with the input tree.
func rewrite(node Node, path string, transform func(Node) Node) (Node, bool) {
	if node == nil {
		return nil, false
	}
	if node.Path() == path {
		return transform(node), true
	}
	directory, isDirectory := node.(*Directory)
	if !isDirectory {
		return node, false
	}
	for index, child := range directory.children {
		replacement, found := rewrite(child, path, transform)
		if !found {
			continue
		}
		if replacement == child {
			return directory, true
		}
		rebuilt := directory.clone()
		rebuilt.children = make([]Node, len(directory.children))
		copy(rebuilt.children, directory.children)
		rebuilt.children[index] = replacement
		return rebuilt, true
	}
	return directory, false
}

// cascade forces state onto node and all of its descendants.
func cascade(node Node, state SelectionState) Node {
	switch typed := node.(type) {
	case *File:
		return typed.withChecked(state == Checked)
	case *Directory:
		children, changed := mapChildren(typed.children, func(child Node) Node {
			return cascade(child, state)
		})
		if !changed && typed.state == state {
			return typed
		}
		forced := typed.clone()
		forced.children = children
		forced.state = state
		return forced
	default:
		return node
	}
}

// recompute re-derives every directory state bottom-up. Empty directories
// keep whatever state they hold.
func recompute(node Node) Node {
	directory, isDirectory := node.(*Directory)
	if !isDirectory || len(directory.children) == 0 {
		return node
	}
	children, changed := mapChildren(directory.children, recompute)
	derived := deriveState(children)
	if !changed && derived == directory.state {
		return directory
	}
	updated := directory.clone()
	updated.children = children
	updated.state = derived
	return updated
}

func deriveState(children []Node) SelectionState {
	allChecked := true
	allUnchecked := true
	for _, child := range children {
		switch child.State() {
		case Checked:
			allUnchecked = false
		case Unchecked:
			allChecked = false
		default:
			return PartiallyChecked
		}
	}
	switch {
	case allChecked:
		return Checked
	case allUnchecked:
		return Unchecked
	default:
		return PartiallyChecked
	}
}

// mapChildren applies transform to every child. The original slice is
// returned untouched when no child changed.
func mapChildren(children []Node, transform func(Node) Node) ([]Node, bool) {
	var mapped []Node
	for index, child := range children {
		next := transform(child)
		if mapped == nil {
			if next == child {
				continue
			}
			mapped = make([]Node, len(children))
			copy(mapped, children[:index])
		}
		mapped[index] = next
	}
	if mapped == nil {
		return children, false
	}
	return mapped, true
}
