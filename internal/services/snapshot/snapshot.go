// Package snapshot loads a directory from disk into a selection tree.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/ctxpick/internal/config"
	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	absolutePathErrorFormat  = "getting absolute path for %s: %w"
	statRootErrorFormat      = "inspecting %s: %w"
	ignorePatternErrorFormat = "loading ignore patterns for %s: %w"
	readDirectoryErrorFormat = "reading directory %s: %w"

	skipSubdirectoryMessage = "skipping unreadable subdirectory"
	loadedMessage           = "loaded directory snapshot"

	pathFieldName        = "path"
	filesFieldName       = "files"
	rootRelativeDotValue = "."
)

// ErrNotDirectory is returned when the requested root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Loader produces the root of a selection tree for a directory path.
type Loader interface {
	Load(ctx context.Context, rootPath string) (*fstree.Directory, error)
}

// DirectoryReader lists the entries of one directory.
type DirectoryReader func(directoryPath string) ([]os.DirEntry, error)

// Provider reads directories from the local filesystem, hiding entries
// matched by the configured ignore sources.
type Provider struct {
	logger        *zap.Logger
	options       config.IgnoreOptions
	readDirectory DirectoryReader
}

// NewProvider constructs a Provider that lists directories with os.ReadDir.
func NewProvider(logger *zap.Logger, options config.IgnoreOptions) *Provider {
	return NewProviderWithReader(logger, options, os.ReadDir)
}

// NewProviderWithReader constructs a Provider that lists directories with readDirectory.
func NewProviderWithReader(logger *zap.Logger, options config.IgnoreOptions, readDirectory DirectoryReader) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if readDirectory == nil {
		readDirectory = os.ReadDir
	}
	return &Provider{logger: logger, options: options, readDirectory: readDirectory}
}

// Load returns a closed, unchecked tree for rootPath. Children keep the
// enumeration order of the directory reader. Ignore files are read as their
// directories are entered, and hidden directories are not entered at all.
// Unreadable subdirectories are logged and loaded empty.
func (provider *Provider) Load(ctx context.Context, rootPath string) (*fstree.Directory, error) {
	absoluteRootPath, absoluteErr := filepath.Abs(rootPath)
	if absoluteErr != nil {
		return nil, fmt.Errorf(absolutePathErrorFormat, rootPath, absoluteErr)
	}
	rootInfo, statErr := os.Stat(absoluteRootPath)
	if statErr != nil {
		return nil, fmt.Errorf(statRootErrorFormat, absoluteRootPath, statErr)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(statRootErrorFormat, absoluteRootPath, ErrNotDirectory)
	}

	builder := treeBuilder{rootPath: absoluteRootPath, readDirectory: provider.readDirectory, logger: provider.logger}
	children, buildErr := builder.children(ctx, absoluteRootPath, config.NewIgnoreMatcher(absoluteRootPath, provider.options))
	if buildErr != nil {
		return nil, buildErr
	}

	root := fstree.NewDirectory(rootName(absoluteRootPath), absoluteRootPath, children)
	provider.logger.Debug(loadedMessage,
		zap.String(pathFieldName, absoluteRootPath),
		zap.Int(filesFieldName, builder.fileCount),
	)
	return root, nil
}

// rootName is the display name of the loaded directory. The filesystem root
// has an empty name.
func rootName(absoluteRootPath string) string {
	name := filepath.Base(absoluteRootPath)
	if name == string(filepath.Separator) || name == rootRelativeDotValue || name == filepath.VolumeName(absoluteRootPath) {
		return ""
	}
	return name
}

type treeBuilder struct {
	rootPath      string
	readDirectory DirectoryReader
	logger        *zap.Logger
	fileCount     int
}

func (builder *treeBuilder) children(ctx context.Context, directoryPath string, parentIgnores *config.IgnoreMatcher) ([]fstree.Node, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	entries, readErr := builder.readDirectory(directoryPath)
	if readErr != nil {
		return nil, fmt.Errorf(readDirectoryErrorFormat, directoryPath, readErr)
	}
	ignores, ignoreErr := parentIgnores.Descend(directoryPath)
	if ignoreErr != nil {
		return nil, fmt.Errorf(ignorePatternErrorFormat, directoryPath, ignoreErr)
	}

	nodes := make([]fstree.Node, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(directoryPath, entry.Name())
		relativePath := utils.RelativePathOrSelf(childPath, builder.rootPath)
		if relativePath == rootRelativeDotValue || ignores.Ignored(relativePath, entry.IsDir()) {
			continue
		}
		if !entry.IsDir() {
			builder.fileCount++
			nodes = append(nodes, fstree.NewFile(entry.Name(), childPath))
			continue
		}
		grandchildren, childErr := builder.children(ctx, childPath, ignores)
		if childErr != nil {
			if errors.Is(childErr, context.Canceled) || errors.Is(childErr, context.DeadlineExceeded) {
				return nil, childErr
			}
			builder.logger.Warn(skipSubdirectoryMessage, zap.String(pathFieldName, childPath), zap.Error(childErr))
			grandchildren = nil
		}
		nodes = append(nodes, fstree.NewDirectory(entry.Name(), childPath, grandchildren))
	}
	return nodes, nil
}
