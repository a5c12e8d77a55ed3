package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpick/internal/config"
	"github.com/temirov/ctxpick/internal/types"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	exclusionFlagName               = "e"
	noGitignoreFlagName             = "no-gitignore"
	noIgnoreFlagName                = "no-ignore"
	includeGitFlagName              = "git"
	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	defaultPath                     = "."

	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root that is a regular file.
	errorNotDirectoryFormat = "path '%s' is not a directory"
)

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

// resolve overlays explicitly set flags on the configured path settings.
func (options pathOptions) resolve(command *cobra.Command, configured config.PathConfiguration) config.IgnoreOptions {
	resolved := configured.IgnoreOptions()
	if len(options.exclusionPatterns) > 0 {
		resolved.Exclude = utils.DeduplicatePatterns(append(resolved.Exclude, options.exclusionPatterns...))
	}
	if command.Flags().Changed(noGitignoreFlagName) {
		resolved.UseGitignore = !options.disableGitignore
	}
	if command.Flags().Changed(noIgnoreFlagName) {
		resolved.UseIgnoreFile = !options.disableIgnoreFile
	}
	if command.Flags().Changed(includeGitFlagName) {
		resolved.IncludeGit = options.includeGit
	}
	return resolved
}

// resolveDirectory converts the optional directory argument to an absolute,
// existing directory path.
func resolveDirectory(arguments []string) (types.ValidatedPath, error) {
	inputPath := defaultPath
	if len(arguments) > 0 {
		inputPath = arguments[0]
	}
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}
