// Package utils provides helpers shared across ctxpick: logging, version
// discovery, ignore pattern matching and size formatting.
package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutable      = "git"
	gitNotFoundFormat  = "%s directory not found in or above %s"
	absolutePathFormat = "resolve absolute path for %s: %w"
)

var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the module version from build info, falling
// back to git describe in the enclosing repository.
func GetApplicationVersion() string {
	buildInfo, available := debug.ReadBuildInfo()
	if available && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, findErr := findGitDirectory(".")
	if findErr != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		// #nosec G204
		command := exec.Command(gitExecutable, arguments...)
		command.Dir = repositoryDirectory
		output, runErr := command.Output()
		if runErr == nil && len(output) > 0 {
			return strings.TrimSpace(string(output))
		}
	}
	return unknownVersion
}

// findGitDirectory walks upward from startDirectory to the first directory holding .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStart, absoluteErr := filepath.Abs(startDirectory)
	if absoluteErr != nil {
		return "", fmt.Errorf(absolutePathFormat, startDirectory, absoluteErr)
	}

	currentDirectory := absoluteStart
	for {
		information, statErr := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statErr == nil && information.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf(gitNotFoundFormat, GitDirectoryName, absoluteStart)
		}
		currentDirectory = parentDirectory
	}
}
