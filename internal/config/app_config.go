package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/ctxpick/internal/utils"
)

const (
	workingDirectoryErrorFormat = "determine working directory: %w"
	resolveConfigErrorFormat    = "resolve configuration path %s: %w"
	statConfigErrorFormat       = "stat configuration %s: %w"
	configIsDirectoryFormat     = "configuration path %s is a directory"
	readConfigErrorFormat       = "read configuration from %s: %w"
	decodeConfigErrorFormat     = "decode configuration from %s: %w"

	// DefaultContentWorkers bounds concurrent file reads when nothing is configured.
	DefaultContentWorkers = 8
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Preview PreviewConfiguration `mapstructure:"preview"`
	Browse  BrowseConfiguration  `mapstructure:"browse"`
	Content ContentConfiguration `mapstructure:"content"`
}

// PreviewConfiguration defines defaults for the preview command.
type PreviewConfiguration struct {
	Format    string             `mapstructure:"format"`
	Summary   *bool              `mapstructure:"summary"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
	Paths     PathConfiguration  `mapstructure:"paths"`
	Clipboard *bool              `mapstructure:"copy"`
}

// BrowseConfiguration defines defaults for the interactive browse command.
type BrowseConfiguration struct {
	Paths     PathConfiguration `mapstructure:"paths"`
	Clipboard *bool             `mapstructure:"copy"`
}

// ContentConfiguration controls how selected file contents are read.
type ContentConfiguration struct {
	Workers *int `mapstructure:"workers"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures which paths are hidden from the loaded tree.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	IncludeGit    *bool    `mapstructure:"include_git"`
}

// IgnoreOptions resolves the path configuration against built-in defaults:
// both ignore files are honored and .git is hidden.
func (config PathConfiguration) IgnoreOptions() IgnoreOptions {
	return IgnoreOptions{
		Exclude:       append([]string(nil), config.Exclude...),
		UseGitignore:  boolOrDefault(config.UseGitignore, true),
		UseIgnoreFile: boolOrDefault(config.UseIgnoreFile, true),
		IncludeGit:    boolOrDefault(config.IncludeGit, false),
	}
}

// WorkerCount returns the configured read concurrency or DefaultContentWorkers.
func (config ContentConfiguration) WorkerCount() int {
	if config.Workers == nil || *config.Workers <= 0 {
		return DefaultContentWorkers
	}
	return *config.Workers
}

// LoadApplicationConfiguration loads the global file, then overlays the local
// (or explicitly named) file on top of it.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Preview.Paths.Exclude = utils.DeduplicatePatterns(merged.Preview.Paths.Exclude)
	merged.Browse.Paths.Exclude = utils.DeduplicatePatterns(merged.Browse.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(resolveConfigErrorFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(statConfigErrorFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(configIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(readConfigErrorFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(decodeConfigErrorFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Preview = result.Preview.merge(override.Preview)
	result.Browse = result.Browse.merge(override.Browse)
	result.Content = result.Content.merge(override.Content)
	return result
}

func (config PreviewConfiguration) merge(override PreviewConfiguration) PreviewConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config BrowseConfiguration) merge(override BrowseConfiguration) BrowseConfiguration {
	result := config
	result.Paths = result.Paths.merge(override.Paths)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config ContentConfiguration) merge(override ContentConfiguration) ContentConfiguration {
	result := config
	if override.Workers != nil {
		workers := *override.Workers
		result.Workers = &workers
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
