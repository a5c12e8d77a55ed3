package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// ExclusionPrefix marks patterns that exclude a path prefix from processing.
	ExclusionPrefix = "EXCL:"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	pathSegmentSeparator = "/"
	currentDirectory     = "."
)

var serviceFiles = map[string]struct{}{
	IgnoreFileName:    {},
	GitIgnoreFileName: {},
	ConfigFileName:    {},
}

// DeduplicatePatterns removes duplicate patterns while preserving first occurrences.
func DeduplicatePatterns(patterns []string) []string {
	encountered := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encountered[pattern]; exists {
			continue
		}
		encountered[pattern] = struct{}{}
		result = append(result, pattern)
	}
	return result
}

// RelativePathOrSelf returns fullPath relative to root in forward-slash form,
// "." when both name the same directory, or the cleaned fullPath when no
// relative form exists.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteErr := filepath.Abs(root)
	if absoluteErr != nil {
		return cleanPath
	}
	absoluteRoot = filepath.Clean(absoluteRoot)
	if cleanPath == absoluteRoot {
		return currentDirectory
	}
	relativePath, relativeErr := filepath.Rel(absoluteRoot, cleanPath)
	if relativeErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ShouldIgnoreByPath reports whether relativePath, expressed relative to the
// loaded root, is excluded by ignorePatterns. Patterns ending in a slash match
// a directory and everything below it. Single-segment patterns match the last
// path segment anywhere in the tree. Multi-segment patterns match the whole
// path segment by segment with filepath.Match semantics. The ignore and
// configuration files themselves are always excluded.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	pathSegments := strings.Split(toForwardSlashes(relativePath), pathSegmentSeparator)
	lastSegment := pathSegments[len(pathSegments)-1]
	if _, isServiceFile := serviceFiles[lastSegment]; isServiceFile {
		return true
	}

	for _, pattern := range ignorePatterns {
		normalizedPattern := toForwardSlashes(pattern)

		if strings.HasPrefix(normalizedPattern, ExclusionPrefix) {
			exclusionSegments := strings.Split(strings.TrimPrefix(normalizedPattern, ExclusionPrefix), pathSegmentSeparator)
			if hasMatchingPrefix(pathSegments, exclusionSegments) {
				return true
			}
			continue
		}

		patternSegments := strings.Split(strings.TrimSuffix(normalizedPattern, pathSegmentSeparator), pathSegmentSeparator)
		switch {
		case strings.HasSuffix(normalizedPattern, pathSegmentSeparator):
			if hasMatchingPrefix(pathSegments, patternSegments) {
				return true
			}
		case len(patternSegments) == 1:
			if matched, matchErr := filepath.Match(patternSegments[0], lastSegment); matchErr == nil && matched {
				return true
			}
		case len(pathSegments) == len(patternSegments):
			if segmentsMatch(pathSegments, patternSegments) {
				return true
			}
		}
	}
	return false
}

func hasMatchingPrefix(pathSegments, patternSegments []string) bool {
	return len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments)
}

func segmentsMatch(pathSegments, patternSegments []string) bool {
	for index, patternSegment := range patternSegments {
		matched, matchErr := filepath.Match(patternSegment, pathSegments[index])
		if matchErr != nil || !matched {
			return false
		}
	}
	return true
}

func toForwardSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", pathSegmentSeparator)
}
