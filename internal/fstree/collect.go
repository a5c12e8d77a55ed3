package fstree

// CollectSelectedFiles returns the paths of every checked file, depth-first in
// stored child order. Directory paths are never returned.
func CollectSelectedFiles(root Node) []string {
	var selectedPaths []string
	Walk(root, func(node Node, _ int) bool {
		if file, isFile := node.(*File); isFile && file.checked {
			selectedPaths = append(selectedPaths, file.path)
		}
		return true
	})
	return selectedPaths
}

// CountFiles returns how many files are checked and how many exist.
func CountFiles(root Node) (selected int, total int) {
	Walk(root, func(node Node, _ int) bool {
		if file, isFile := node.(*File); isFile {
			total++
			if file.checked {
				selected++
			}
		}
		return true
	})
	return selected, total
}

// Walk visits node and its descendants depth-first in stored order. Returning
// false from visit skips the children of the visited node.
func Walk(node Node, visit func(node Node, depth int) bool) {
	walk(node, 0, visit)
}

func walk(node Node, depth int, visit func(Node, int) bool) {
	if node == nil || !visit(node, depth) {
		return
	}
	if directory, isDirectory := node.(*Directory); isDirectory {
		for _, child := range directory.children {
			walk(child, depth+1, visit)
		}
	}
}

// Find returns the node whose path equals path.
func Find(root Node, path string) (Node, bool) {
	var match Node
	Walk(root, func(node Node, _ int) bool {
		if match != nil {
			return false
		}
		if node.Path() == path {
			match = node
			return false
		}
		return true
	})
	return match, match != nil
}

// Ancestors returns the directories from root down to the parent of the node
// identified by path. It returns false when path is not in the tree.
func Ancestors(root Node, path string) ([]*Directory, bool) {
	var chain []*Directory
	var search func(node Node) bool
	search = func(node Node) bool {
		if node == nil {
			return false
		}
		if node.Path() == path {
			return true
		}
		directory, isDirectory := node.(*Directory)
		if !isDirectory {
			return false
		}
		chain = append(chain, directory)
		for _, child := range directory.children {
			if search(child) {
				return true
			}
		}
		chain = chain[:len(chain)-1]
		return false
	}
	if !search(root) {
		return nil, false
	}
	return chain, true
}
