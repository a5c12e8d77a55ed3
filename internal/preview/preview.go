// Package preview assembles the text artifact for the current selection: the
// structure block followed by one block per selected file.
package preview

import (
	"context"
	"strings"

	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/structure"
)

const (
	// NoPreviewText is returned when no directory is loaded.
	NoPreviewText = "No file preview"
	// NoSelectionText is returned when nothing is selected.
	NoSelectionText = "No file selected"

	fileHeaderPrefix = "FILE: "
	blockSeparator   = "\n\n"
	lineSeparator    = "\n"
)

// SeparatorLine frames every file header.
var SeparatorLine = strings.Repeat("=", 48)

// FileContent pairs a path with its resolved content or a read error message.
type FileContent struct {
	Path    string
	Content string
}

// ContentFetcher resolves file contents. Implementations return exactly one
// entry per requested path, in request order, and substitute read errors as
// content instead of failing.
type ContentFetcher interface {
	ReadFiles(ctx context.Context, paths []string) []FileContent
}

// FetchFunc adapts a function to ContentFetcher.
type FetchFunc func(ctx context.Context, paths []string) []FileContent

// ReadFiles calls fetch.
func (fetch FetchFunc) ReadFiles(ctx context.Context, paths []string) []FileContent {
	return fetch(ctx, paths)
}

// Result is an assembled preview together with the files that went into it.
type Result struct {
	Text      string
	Structure string
	Files     []FileContent
}

// Build returns the preview text for root. A nil root yields NoPreviewText and
// an empty selection yields NoSelectionText.
func Build(ctx context.Context, root fstree.Node, fetcher ContentFetcher) string {
	return Assemble(ctx, root, fetcher).Text
}

// Assemble is Build with the intermediate pieces kept for structured output.
func Assemble(ctx context.Context, root fstree.Node, fetcher ContentFetcher) Result {
	if root == nil {
		return Result{Text: NoPreviewText}
	}
	selectedPaths := fstree.CollectSelectedFiles(root)
	if len(selectedPaths) == 0 {
		return Result{Text: NoSelectionText}
	}

	files := fetcher.ReadFiles(ctx, selectedPaths)
	blocks := make([]string, 0, len(files))
	for _, file := range files {
		blocks = append(blocks, FileBlock(file))
	}

	structureBlock := structure.Render(root.Name(), structure.RelativePaths(root.Path(), selectedPaths))
	return Result{
		Text:      structureBlock + blockSeparator + strings.Join(blocks, blockSeparator),
		Structure: structureBlock,
		Files:     files,
	}
}

// FileBlock renders a single file block: framed header line, then content verbatim.
func FileBlock(file FileContent) string {
	var builder strings.Builder
	builder.WriteString(SeparatorLine)
	builder.WriteString(lineSeparator)
	builder.WriteString(fileHeaderPrefix)
	builder.WriteString(structure.BaseName(file.Path))
	builder.WriteString(lineSeparator)
	builder.WriteString(SeparatorLine)
	builder.WriteString(lineSeparator)
	builder.WriteString(file.Content)
	return builder.String()
}
