package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/ctxpick/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryMode = 0o755
	configurationFileMode      = 0o600

	initWorkingDirectoryErrorFormat = "determine working directory for configuration: %w"
	initHomeDirectoryErrorFormat    = "resolve home directory for configuration: %w"
	initCreateDirectoryErrorFormat  = "create configuration directory %s: %w"
	initUnsupportedTargetFormat     = "unsupported init target %q"
	initAlreadyExistsFormat         = "configuration file already exists at %s"
	initInspectErrorFormat          = "inspect configuration path %s: %w"
	initWriteErrorFormat            = "write configuration to %s: %w"

	defaultConfigurationTemplate = `preview:
  format: raw
  summary: false
  copy: false
  tokens:
    enabled: false
    model: gpt-4o
  paths:
    exclude: []
    use_gitignore: true
    use_ignore: true
    include_git: false
browse:
  copy: false
  paths:
    exclude: []
    use_gitignore: true
    use_ignore: true
    include_git: false
content:
  workers: 8
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the path written.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveErr := initDestination(options)
	if resolveErr != nil {
		return "", resolveErr
	}

	if _, statErr := os.Stat(destinationPath); statErr == nil {
		if !options.Force {
			return "", fmt.Errorf(initAlreadyExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(statErr) {
		return "", fmt.Errorf(initInspectErrorFormat, destinationPath, statErr)
	}

	if writeErr := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFileMode); writeErr != nil {
		return "", fmt.Errorf(initWriteErrorFormat, destinationPath, writeErr)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(initWorkingDirectoryErrorFormat, err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolved, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf(initHomeDirectoryErrorFormat, err)
			}
			homeDirectory = resolved
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryMode); err != nil {
			return "", fmt.Errorf(initCreateDirectoryErrorFormat, configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf(initUnsupportedTargetFormat, options.Target)
	}
}
