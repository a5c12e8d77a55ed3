// Package structure renders a set of relative paths as an ASCII directory tree.
package structure

import (
	"sort"
	"strings"
)

const (
	// Header is the first line of every rendered structure block.
	Header = "Directory structure:"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"
	lineSeparator       = "\n"
)

// prefixNode is one segment of the prefix tree. A node without children is a file.
type prefixNode struct {
	children map[string]*prefixNode
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: map[string]*prefixNode{}}
}

func (node *prefixNode) insert(segments []string) {
	current := node
	for _, segment := range segments {
		next, exists := current.children[segment]
		if !exists {
			next = newPrefixNode()
			current.children[segment] = next
		}
		current = next
	}
}

// Render returns the structure block for rootName and relativePaths. The output
// does not depend on the order of relativePaths, and duplicates collapse.
func Render(rootName string, relativePaths []string) string {
	root := newPrefixNode()
	for _, relativePath := range relativePaths {
		segments := SplitSegments(relativePath)
		if len(segments) == 0 {
			continue
		}
		root.insert(segments)
	}

	lines := []string{
		Header,
		treeLastConnector + rootName + directorySuffix,
	}
	lines = appendLevel(lines, root, treeLastPadding)
	return strings.Join(lines, lineSeparator)
}

func appendLevel(lines []string, node *prefixNode, prefix string) []string {
	var directoryNames, fileNames []string
	for name, child := range node.children {
		if len(child.children) > 0 {
			directoryNames = append(directoryNames, name)
		} else {
			fileNames = append(fileNames, name)
		}
	}
	sort.Strings(directoryNames)
	sort.Strings(fileNames)

	total := len(directoryNames) + len(fileNames)
	for index, name := range append(directoryNames, fileNames...) {
		isLast := index == total-1
		connector, childPrefix := linePrefix(prefix, isLast)
		child := node.children[name]
		if len(child.children) == 0 {
			lines = append(lines, connector+name)
			continue
		}
		lines = append(lines, connector+name+directorySuffix)
		lines = appendLevel(lines, child, childPrefix)
	}
	return lines
}

func linePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

// SplitSegments splits a path on both slash styles and drops empty segments.
func SplitSegments(path string) []string {
	return strings.FieldsFunc(path, func(character rune) bool {
		return character == '/' || character == '\\'
	})
}

// RelativePaths expresses every absolute path relative to rootPath by dropping
// as many leading segments as rootPath has. Paths that are not deeper than the
// root are skipped.
func RelativePaths(rootPath string, absolutePaths []string) []string {
	rootSegments := SplitSegments(rootPath)
	relativePaths := make([]string, 0, len(absolutePaths))
	for _, absolutePath := range absolutePaths {
		segments := SplitSegments(absolutePath)
		if len(segments) <= len(rootSegments) {
			continue
		}
		relativePaths = append(relativePaths, strings.Join(segments[len(rootSegments):], directorySuffix))
	}
	return relativePaths
}

// BaseName returns the last non-empty segment of path.
func BaseName(path string) string {
	segments := SplitSegments(path)
	if len(segments) == 0 {
		return path
	}
	return segments[len(segments)-1]
}
