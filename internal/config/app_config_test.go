package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/ctxpick/internal/utils"
)

type configTestCase struct {
	name          string
	globalContent string
	localContent  string
	explicitPath  string
	explicitBody  string
	expectFormat  string
	expectSummary *bool
	expectTokens  *bool
	expectModel   string
	expectCopy    *bool
	expectWorkers int
	expectExclude []string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:          "local_overrides_global",
			globalContent: "preview:\n  format: raw\n  summary: false\n  copy: true\ncontent:\n  workers: 2\n",
			localContent:  "preview:\n  format: xml\n  copy: false\n  tokens:\n    enabled: true\n    model: custom\n",
			expectFormat:  "xml",
			expectSummary: boolPointer(false),
			expectTokens:  boolPointer(true),
			expectModel:   "custom",
			expectCopy:    boolPointer(false),
			expectWorkers: 2,
		},
		{
			name:          "explicit_path_replaces_local",
			globalContent: "preview:\n  format: json\n",
			localContent:  "preview:\n  format: xml\n",
			explicitPath:  "custom.yaml",
			explicitBody:  "preview:\n  format: raw\n",
			expectFormat:  "raw",
			expectWorkers: DefaultContentWorkers,
		},
		{
			name:          "exclusions_are_deduplicated",
			localContent:  "preview:\n  paths:\n    exclude: [\"*.log\", \"dist/\", \"*.log\"]\n",
			expectWorkers: DefaultContentWorkers,
			expectExclude: []string{"*.log", "dist/"},
		},
		{
			name:          "no_files_yields_defaults",
			expectWorkers: DefaultContentWorkers,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				if err := os.WriteFile(filepath.Join(configDir, utils.ConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				if err := os.WriteFile(filepath.Join(workingDir, testCase.explicitPath), []byte(testCase.explicitBody), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			previewConfig := loadedConfig.Preview
			if previewConfig.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, previewConfig.Format)
			}
			assertBoolPointer(t, "summary", previewConfig.Summary, testCase.expectSummary)
			assertBoolPointer(t, "tokens", previewConfig.Tokens.Enabled, testCase.expectTokens)
			assertBoolPointer(t, "copy", previewConfig.Clipboard, testCase.expectCopy)
			if previewConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, previewConfig.Tokens.Model)
			}
			if workers := loadedConfig.Content.WorkerCount(); workers != testCase.expectWorkers {
				t.Fatalf("expected %d workers, got %d", testCase.expectWorkers, workers)
			}
			if len(testCase.expectExclude) > 0 && !reflect.DeepEqual(previewConfig.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, previewConfig.Paths.Exclude)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	if err := os.Mkdir(filepath.Join(workingDir, "dir.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, ExplicitFilePath: "dir.yaml"}); err == nil {
		t.Fatalf("expected an error for a directory configuration path")
	}
}

func TestPathConfigurationIgnoreOptionsDefaults(t *testing.T) {
	defaults := PathConfiguration{}.IgnoreOptions()
	if !defaults.UseGitignore || !defaults.UseIgnoreFile || defaults.IncludeGit {
		t.Fatalf("unexpected defaults %+v", defaults)
	}
	overridden := PathConfiguration{
		Exclude:      []string{"tmp/"},
		UseGitignore: boolPointer(false),
		IncludeGit:   boolPointer(true),
	}.IgnoreOptions()
	if overridden.UseGitignore || !overridden.IncludeGit || !reflect.DeepEqual(overridden.Exclude, []string{"tmp/"}) {
		t.Fatalf("unexpected overrides %+v", overridden)
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	workers := 4
	base := ApplicationConfiguration{
		Browse:  BrowseConfiguration{Clipboard: boolPointer(true)},
		Content: ContentConfiguration{Workers: &workers},
	}
	merged := base.Merge(ApplicationConfiguration{Preview: PreviewConfiguration{Format: "json"}})
	if merged.Preview.Format != "json" {
		t.Fatalf("expected preview format to be overridden")
	}
	assertBoolPointer(t, "browse copy", merged.Browse.Clipboard, boolPointer(true))
	if merged.Content.WorkerCount() != 4 {
		t.Fatalf("expected workers to be kept")
	}
}

func assertBoolPointer(t *testing.T, label string, actual, expected *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected %s to be unset, got %v", label, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("expected %s %v, got %v", label, *expected, actual)
	}
}
