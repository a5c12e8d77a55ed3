package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/preview"
	"github.com/temirov/ctxpick/internal/tui"
	"github.com/temirov/ctxpick/internal/types"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	mainFileContent   = "package main"
	readmeFileContent = "hello"
)

type stubCopier struct {
	copied []string
	err    error
}

func (copier *stubCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type commandResult struct {
	stdout string
	stderr string
	err    error
}

// createProject lays out src/main.go and README.md under a fresh directory and
// isolates the global configuration.
func createProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	projectDirectory := t.TempDir()
	if err := os.Mkdir(filepath.Join(projectDirectory, "src"), 0o755); err != nil {
		t.Fatalf("mkdir src: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "src", "main.go"), []byte(mainFileContent), 0o600); err != nil {
		t.Fatalf("write main.go: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "README.md"), []byte(readmeFileContent), 0o600); err != nil {
		t.Fatalf("write README.md: %v", err)
	}
	return projectDirectory
}

func runCommand(t *testing.T, dependencies Dependencies, arguments ...string) commandResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	dependencies.Stdout = &stdout
	dependencies.Stderr = &stderr
	if dependencies.Copier == nil {
		dependencies.Copier = &stubCopier{}
	}
	err := ExecuteWithArguments(context.Background(), dependencies, arguments)
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func fileBlock(name, content string) string {
	return preview.SeparatorLine + "\nFILE: " + name + "\n" + preview.SeparatorLine + "\n" + content
}

func TestPreviewCommandRawOutput(t *testing.T) {
	projectDirectory := createProject(t)
	projectName := filepath.Base(projectDirectory)

	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{
			name:      "single_selection",
			arguments: []string{"preview", projectDirectory, "--select", "src/main.go"},
			expected: "Directory structure:\n└── " + projectName + "/\n    └── src/\n        └── main.go\n\n" +
				fileBlock("main.go", mainFileContent) + "\n",
		},
		{
			name:      "directory_selection",
			arguments: []string{"preview", projectDirectory, "--select", "src"},
			expected: "Directory structure:\n└── " + projectName + "/\n    └── src/\n        └── main.go\n\n" +
				fileBlock("main.go", mainFileContent) + "\n",
		},
		{
			name:      "unknown_selection",
			arguments: []string{"preview", projectDirectory, "--select", "missing.go"},
			expected:  preview.NoSelectionText + "\n",
		},
		{
			name:      "uppercase_format",
			arguments: []string{"preview", projectDirectory, "--select", "README.md", "--format", "RAW"},
			expected: "Directory structure:\n└── " + projectName + "/\n    └── README.md\n\n" +
				fileBlock("README.md", readmeFileContent) + "\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := runCommand(t, Dependencies{}, testCase.arguments...)
			if result.err != nil {
				t.Fatalf("preview failed: %v", result.err)
			}
			if result.stdout != testCase.expected {
				t.Fatalf("unexpected output:\n%q\nwant:\n%q", result.stdout, testCase.expected)
			}
			if result.stderr != "" {
				t.Fatalf("expected empty stderr, got %q", result.stderr)
			}
		})
	}
}

func TestPreviewCommandSelectsEverythingByDefault(t *testing.T) {
	projectDirectory := createProject(t)
	result := runCommand(t, Dependencies{}, "preview", projectDirectory)
	if result.err != nil {
		t.Fatalf("preview failed: %v", result.err)
	}
	for _, fragment := range []string{"FILE: main.go", "FILE: README.md", "    ├── src/"} {
		if !strings.Contains(result.stdout, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, result.stdout)
		}
	}
}

func TestPreviewCommandSummaryGoesToStderr(t *testing.T) {
	projectDirectory := createProject(t)
	result := runCommand(t, Dependencies{}, "preview", projectDirectory, "--select", "README.md", "--summary")
	if result.err != nil {
		t.Fatalf("preview failed: %v", result.err)
	}
	if strings.Contains(result.stdout, "Summary:") {
		t.Fatalf("summary leaked into the artifact:\n%s", result.stdout)
	}
	if !strings.HasPrefix(result.stderr, "Summary: 1 file, ") {
		t.Fatalf("expected summary line on stderr, got %q", result.stderr)
	}
}

func TestPreviewCommandJSON(t *testing.T) {
	projectDirectory := createProject(t)
	result := runCommand(t, Dependencies{}, "preview", projectDirectory, "--select", "src/main.go", "--format", "json", "--summary")
	if result.err != nil {
		t.Fatalf("preview failed: %v", result.err)
	}
	var document types.PreviewOutput
	if err := json.Unmarshal([]byte(result.stdout), &document); err != nil {
		t.Fatalf("decode output: %v\n%s", err, result.stdout)
	}
	if document.Root != projectDirectory {
		t.Fatalf("expected root %s, got %s", projectDirectory, document.Root)
	}
	if len(document.Files) != 1 || document.Files[0].Name != "main.go" || document.Files[0].Content != mainFileContent {
		t.Fatalf("unexpected files: %+v", document.Files)
	}
	if !strings.HasPrefix(document.Structure, "Directory structure:") {
		t.Fatalf("unexpected structure %q", document.Structure)
	}
	if document.Summary == nil || document.Summary.TotalFiles != 1 {
		t.Fatalf("expected embedded summary, got %+v", document.Summary)
	}
	if result.stderr != "" {
		t.Fatalf("expected empty stderr for json, got %q", result.stderr)
	}
}

func TestPreviewCommandErrors(t *testing.T) {
	projectDirectory := createProject(t)
	testCases := []struct {
		name      string
		arguments []string
		fragment  string
	}{
		{name: "invalid_format", arguments: []string{"preview", projectDirectory, "--format", "yaml"}, fragment: "Invalid format value 'yaml'"},
		{name: "missing_directory", arguments: []string{"preview", filepath.Join(projectDirectory, "absent")}, fragment: "does not exist"},
		{name: "file_root", arguments: []string{"preview", filepath.Join(projectDirectory, "README.md")}, fragment: "is not a directory"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := runCommand(t, Dependencies{}, testCase.arguments...)
			if result.err == nil || !strings.Contains(result.err.Error(), testCase.fragment) {
				t.Fatalf("expected error containing %q, got %v", testCase.fragment, result.err)
			}
		})
	}
}

func TestPreviewCommandCopy(t *testing.T) {
	projectDirectory := createProject(t)
	testCases := []struct {
		name      string
		copyError error
	}{
		{name: "copied", copyError: nil},
		{name: "copy_failure_is_not_fatal", copyError: errors.New("no clipboard")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			copier := &stubCopier{err: testCase.copyError}
			result := runCommand(t, Dependencies{Copier: copier}, "preview", projectDirectory, "--select", "README.md", "--copy")
			if result.err != nil {
				t.Fatalf("preview failed: %v", result.err)
			}
			if len(copier.copied) != 1 || copier.copied[0]+"\n" != result.stdout {
				t.Fatalf("expected printed artifact to be copied, got %q", copier.copied)
			}
		})
	}
}

func TestPreviewCommandUsesConfiguration(t *testing.T) {
	projectDirectory := createProject(t)
	configPath := filepath.Join(t.TempDir(), utils.ConfigFileName)
	configuration := "preview:\n  format: json\n  paths:\n    exclude:\n      - README.md\n"
	if err := os.WriteFile(configPath, []byte(configuration), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configured := runCommand(t, Dependencies{}, "--config", configPath, "preview", projectDirectory)
	if configured.err != nil {
		t.Fatalf("preview failed: %v", configured.err)
	}
	var document types.PreviewOutput
	if err := json.Unmarshal([]byte(configured.stdout), &document); err != nil {
		t.Fatalf("expected configured json output: %v\n%s", err, configured.stdout)
	}
	if len(document.Files) != 1 || document.Files[0].Name != "main.go" {
		t.Fatalf("expected README.md to be excluded, got %+v", document.Files)
	}

	overridden := runCommand(t, Dependencies{}, "--config", configPath, "preview", projectDirectory, "--format", "raw")
	if overridden.err != nil {
		t.Fatalf("preview failed: %v", overridden.err)
	}
	if !strings.HasPrefix(overridden.stdout, "Directory structure:") {
		t.Fatalf("expected flag to override configured format, got %q", overridden.stdout)
	}
}

func TestBrowseCommand(t *testing.T) {
	projectDirectory := createProject(t)

	selectRoot := func(_ context.Context, root *fstree.Directory, options tui.Options) (tui.Model, error) {
		model := tui.New(root, options)
		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		updated, _ = updated.Update(cmd())
		return updated.(tui.Model), nil
	}
	selectNothing := func(_ context.Context, root *fstree.Directory, options tui.Options) (tui.Model, error) {
		return tui.New(root, options), nil
	}

	testCases := []struct {
		name         string
		terminal     bool
		runBrowse    func(context.Context, *fstree.Directory, tui.Options) (tui.Model, error)
		arguments    []string
		expectError  error
		expectCopies int
	}{
		{name: "requires_terminal", terminal: false, runBrowse: selectRoot, arguments: []string{"browse", projectDirectory}, expectError: errNotTerminal},
		{name: "copies_final_preview", terminal: true, runBrowse: selectRoot, arguments: []string{"browse", projectDirectory, "--copy"}, expectCopies: 1},
		{name: "no_copy_without_flag", terminal: true, runBrowse: selectRoot, arguments: []string{"browse", projectDirectory}, expectCopies: 0},
		{name: "no_copy_without_selection", terminal: true, runBrowse: selectNothing, arguments: []string{"browse", projectDirectory, "--copy"}, expectCopies: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			copier := &stubCopier{}
			terminal := testCase.terminal
			result := runCommand(t, Dependencies{
				Copier:     copier,
				IsTerminal: func() bool { return terminal },
				RunBrowse:  testCase.runBrowse,
			}, testCase.arguments...)
			if !errors.Is(result.err, testCase.expectError) {
				t.Fatalf("expected error %v, got %v", testCase.expectError, result.err)
			}
			if len(copier.copied) != testCase.expectCopies {
				t.Fatalf("expected %d copies, got %d", testCase.expectCopies, len(copier.copied))
			}
			if testCase.expectCopies > 0 && !strings.Contains(copier.copied[0], "FILE: main.go") {
				t.Fatalf("unexpected copied preview %q", copier.copied[0])
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)

	first := runCommand(t, Dependencies{}, "init", "--global")
	if first.err != nil {
		t.Fatalf("init failed: %v", first.err)
	}
	if !strings.Contains(first.stdout, expectedPath) {
		t.Fatalf("expected written path in output, got %q", first.stdout)
	}
	if _, err := os.Stat(expectedPath); err != nil {
		t.Fatalf("expected configuration file: %v", err)
	}

	second := runCommand(t, Dependencies{}, "init", "--global")
	if second.err == nil || !strings.Contains(second.err.Error(), "already exists") {
		t.Fatalf("expected existing file error, got %v", second.err)
	}

	forced := runCommand(t, Dependencies{}, "init", "--global", "--force", "yes")
	if forced.err != nil {
		t.Fatalf("forced init failed: %v", forced.err)
	}
}

func TestVersionFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	result := runCommand(t, Dependencies{}, "--version")
	if result.err != nil {
		t.Fatalf("version failed: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "ctxpick version: ") {
		t.Fatalf("unexpected version output %q", result.stdout)
	}
}

func TestDebugRequested(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		expected  bool
	}{
		{name: "absent", arguments: []string{"preview", "."}, expected: false},
		{name: "bare_flag", arguments: []string{"--debug", "preview"}, expected: true},
		{name: "after_command", arguments: []string{"preview", ".", "--select", "a.go", "--debug"}, expected: true},
		{name: "explicit_false", arguments: []string{"--debug=false", "browse"}, expected: false},
		{name: "unknown_flags", arguments: []string{"-e", "vendor", "--format", "json"}, expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := DebugRequested(testCase.arguments); actual != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, actual)
			}
		})
	}
}
