package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/ctxpick/internal/utils"
)

func writeTestFile(t *testing.T, filePath string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(filePath), err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", filePath, err)
	}
}

func TestLoadIgnoreFilePatternsSkipsBinarySection(t *testing.T) {
	ignorePath := filepath.Join(t.TempDir(), utils.IgnoreFileName)
	writeTestFile(t, ignorePath, "# comment\n*.log\n\n[binary]\nassets/\n[ignore]\ndist/\n")

	patterns, err := LoadIgnoreFilePatterns(ignorePath)
	if err != nil {
		t.Fatalf("LoadIgnoreFilePatterns failed: %v", err)
	}
	expected := []string{"*.log", "dist/"}
	if !reflect.DeepEqual(patterns, expected) {
		t.Fatalf("unexpected patterns: got %v want %v", patterns, expected)
	}

	missing, err := LoadIgnoreFilePatterns(filepath.Join(t.TempDir(), "absent"))
	if err != nil || missing != nil {
		t.Fatalf("expected no patterns and no error for a missing file, got %v, %v", missing, err)
	}
}

type pathExpectation struct {
	relativePath string
	isDirectory  bool
	ignored      bool
}

func TestIgnoreMatcher(t *testing.T) {
	testCases := []struct {
		name         string
		files        map[string]string
		options      IgnoreOptions
		descendInto  []string
		expectations []pathExpectation
	}{
		{
			name:        "gitignore double star negation and anchoring",
			files:       map[string]string{utils.GitIgnoreFileName: "**/*.log\n*.tmp\n!keep.tmp\n/build\n"},
			options:     IgnoreOptions{UseGitignore: true},
			descendInto: []string{""},
			expectations: []pathExpectation{
				{relativePath: "a/b/x.log", ignored: true},
				{relativePath: "x.log", ignored: true},
				{relativePath: "drop.tmp", ignored: true},
				{relativePath: "keep.tmp", ignored: false},
				{relativePath: "build", isDirectory: true, ignored: true},
				{relativePath: "src/build", isDirectory: true, ignored: false},
				{relativePath: "src/build/gen.go", ignored: false},
			},
		},
		{
			name: "nested gitignore is scoped to its directory",
			files: map[string]string{
				filepath.Join("deep", utils.GitIgnoreFileName): "/generated/\nnested.md\n",
			},
			options:     IgnoreOptions{UseGitignore: true},
			descendInto: []string{"", "deep"},
			expectations: []pathExpectation{
				{relativePath: "deep/nested.md", ignored: true},
				{relativePath: "deep/more/nested.md", ignored: true},
				{relativePath: "nested.md", ignored: false},
				{relativePath: "deep/generated", isDirectory: true, ignored: true},
				{relativePath: "generated", isDirectory: true, ignored: false},
			},
		},
		{
			name: "nested ignore files are prefixed and gitignore is skipped",
			files: map[string]string{
				utils.IgnoreFileName:                             "root.txt\n",
				filepath.Join("nested", utils.IgnoreFileName):    "nested.txt\n",
				filepath.Join("nested", utils.GitIgnoreFileName): "skipped.txt\n",
			},
			options:     IgnoreOptions{UseIgnoreFile: true},
			descendInto: []string{"", "nested"},
			expectations: []pathExpectation{
				{relativePath: "root.txt", ignored: true},
				{relativePath: "nested/nested.txt", ignored: true},
				{relativePath: "nested.txt", ignored: false},
				{relativePath: "nested/skipped.txt", ignored: false},
				{relativePath: ".git", isDirectory: true, ignored: true},
			},
		},
		{
			name:        "git directory included and exclusions applied",
			files:       map[string]string{utils.IgnoreFileName: "*.tmp\n"},
			options:     IgnoreOptions{IncludeGit: true, Exclude: []string{" build/ ", ""}},
			descendInto: []string{""},
			expectations: []pathExpectation{
				{relativePath: ".git", isDirectory: true, ignored: false},
				{relativePath: "build/out.bin", ignored: true},
				{relativePath: "a.tmp", ignored: false},
				{relativePath: utils.IgnoreFileName, ignored: true},
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			rootDirectory := t.TempDir()
			for relativePath, content := range testCase.files {
				writeTestFile(t, filepath.Join(rootDirectory, relativePath), content)
			}

			matcher := NewIgnoreMatcher(rootDirectory, testCase.options)
			for _, relativeDirectory := range testCase.descendInto {
				descended, err := matcher.Descend(filepath.Join(rootDirectory, relativeDirectory))
				if err != nil {
					t.Fatalf("Descend(%q) failed: %v", relativeDirectory, err)
				}
				matcher = descended
			}
			for _, expectation := range testCase.expectations {
				if actual := matcher.Ignored(expectation.relativePath, expectation.isDirectory); actual != expectation.ignored {
					t.Errorf("Ignored(%q) = %v, want %v", expectation.relativePath, actual, expectation.ignored)
				}
			}
		})
	}
}

func TestIgnoreMatcherDescendLeavesParentUnchanged(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "left", utils.GitIgnoreFileName), "*.go\n")
	writeTestFile(t, filepath.Join(rootDirectory, "left", utils.IgnoreFileName), "*.md\n")

	root, err := NewIgnoreMatcher(rootDirectory, IgnoreOptions{UseGitignore: true, UseIgnoreFile: true}).Descend(rootDirectory)
	if err != nil {
		t.Fatalf("Descend(root) failed: %v", err)
	}
	left, err := root.Descend(filepath.Join(rootDirectory, "left"))
	if err != nil {
		t.Fatalf("Descend(left) failed: %v", err)
	}
	if !left.Ignored("left/main.go", false) || !left.Ignored("left/notes.md", false) {
		t.Fatalf("expected the left directory's ignore files to apply below it")
	}
	if root.Ignored("left/main.go", false) || root.Ignored("left/notes.md", false) {
		t.Fatalf("expected the parent matcher to be unchanged by Descend")
	}
}
