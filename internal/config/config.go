// Package config loads application configuration and ignore-file patterns.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gitignorelib "github.com/sabhiram/go-gitignore"

	"github.com/temirov/ctxpick/internal/utils"
)

const (
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	binarySectionHeader = "[binary]"
	ignoreSectionHeader = "[ignore]"
	commentPrefix       = "#"
	patternSeparator    = "/"

	loadIgnoreFileErrorFormat = "loading %s from %s: %w"
	closeWarningFormat        = "Warning: failed to close %s: %v\n"
)

// IgnoreOptions selects which ignore sources apply when loading a tree.
type IgnoreOptions struct {
	Exclude       []string
	UseGitignore  bool
	UseIgnoreFile bool
	IncludeGit    bool
}

// LoadIgnoreFilePatterns reads an ignore file and returns the patterns of its
// [ignore] section. Lines before any section header belong to [ignore]; the
// [binary] section is skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openErr := os.Open(ignoreFilePath)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return nil, nil
		}
		return nil, openErr
	}
	defer func() {
		if closeErr := fileHandle.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, closeWarningFormat, ignoreFilePath, closeErr)
		}
	}()

	var ignorePatterns []string
	inIgnoreSection := true
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		switch {
		case trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix):
		case strings.EqualFold(trimmedLine, binarySectionHeader):
			inIgnoreSection = false
		case strings.EqualFold(trimmedLine, ignoreSectionHeader):
			inIgnoreSection = true
		case inIgnoreSection:
			ignorePatterns = append(ignorePatterns, trimmedLine)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, scanErr
	}
	return ignorePatterns, nil
}

// IgnoreMatcher decides which entries of a tree are hidden. It is grown one
// directory at a time while the tree is walked, so ignore files inside hidden
// directories are never read. Patterns from .ignore and Exclude use the
// project's prefix matcher; every .gitignore is compiled with gitignore
// semantics and applies only below the directory it lives in.
type IgnoreMatcher struct {
	rootDirectoryPath string
	options           IgnoreOptions
	patterns          []string
	gitignores        []scopedGitignore
}

type scopedGitignore struct {
	prefix  string
	matcher gitignorelib.IgnoreParser
}

// NewIgnoreMatcher returns a matcher for the tree rooted at rootDirectoryPath.
// It holds the .git directory pattern unless options.IncludeGit is set, plus
// options.Exclude. Ignore files are added by Descend.
func NewIgnoreMatcher(rootDirectoryPath string, options IgnoreOptions) *IgnoreMatcher {
	var patterns []string
	if !options.IncludeGit {
		patterns = append(patterns, gitDirectoryPattern)
	}
	for _, pattern := range options.Exclude {
		if trimmedPattern := strings.TrimSpace(pattern); trimmedPattern != "" {
			patterns = append(patterns, trimmedPattern)
		}
	}
	return &IgnoreMatcher{
		rootDirectoryPath: rootDirectoryPath,
		options:           options,
		patterns:          utils.DeduplicatePatterns(patterns),
	}
}

// Descend returns the matcher for the entries of directoryPath: the receiver
// extended with the .ignore and .gitignore found there, when those sources are
// enabled. The receiver is left unchanged.
func (matcher *IgnoreMatcher) Descend(directoryPath string) (*IgnoreMatcher, error) {
	prefix := ""
	if relativeDirectory := utils.RelativePathOrSelf(directoryPath, matcher.rootDirectoryPath); relativeDirectory != "." {
		prefix = relativeDirectory + patternSeparator
	}
	descended := *matcher

	if matcher.options.UseIgnoreFile {
		patterns, loadErr := LoadIgnoreFilePatterns(filepath.Join(directoryPath, utils.IgnoreFileName))
		if loadErr != nil {
			return nil, fmt.Errorf(loadIgnoreFileErrorFormat, utils.IgnoreFileName, directoryPath, loadErr)
		}
		if len(patterns) > 0 {
			extended := slices.Clip(matcher.patterns)
			for _, pattern := range patterns {
				extended = append(extended, prefix+strings.TrimPrefix(pattern, patternSeparator))
			}
			descended.patterns = utils.DeduplicatePatterns(extended)
		}
	}

	if matcher.options.UseGitignore {
		gitignorePath := filepath.Join(directoryPath, utils.GitIgnoreFileName)
		if _, statErr := os.Stat(gitignorePath); statErr == nil {
			compiled, compileErr := gitignorelib.CompileIgnoreFile(gitignorePath)
			if compileErr != nil {
				return nil, fmt.Errorf(loadIgnoreFileErrorFormat, utils.GitIgnoreFileName, directoryPath, compileErr)
			}
			descended.gitignores = append(slices.Clip(matcher.gitignores), scopedGitignore{prefix: prefix, matcher: compiled})
		} else if !os.IsNotExist(statErr) {
			return nil, fmt.Errorf(loadIgnoreFileErrorFormat, utils.GitIgnoreFileName, directoryPath, statErr)
		}
	}
	return &descended, nil
}

// Ignored reports whether relativePath, expressed relative to the root with
// forward slashes, is hidden.
func (matcher *IgnoreMatcher) Ignored(relativePath string, isDirectory bool) bool {
	if utils.ShouldIgnoreByPath(relativePath, matcher.patterns) {
		return true
	}
	slashedPath := filepath.ToSlash(relativePath)
	for _, scoped := range matcher.gitignores {
		if !strings.HasPrefix(slashedPath, scoped.prefix) {
			continue
		}
		scopedPath := strings.TrimPrefix(slashedPath, scoped.prefix)
		if scoped.matcher.MatchesPath(scopedPath) {
			return true
		}
		if isDirectory && scoped.matcher.MatchesPath(scopedPath+patternSeparator) {
			return true
		}
	}
	return false
}
