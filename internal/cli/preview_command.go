package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxpick/internal/config"
	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/output"
	"github.com/temirov/ctxpick/internal/preview"
	"github.com/temirov/ctxpick/internal/services/content"
	"github.com/temirov/ctxpick/internal/services/snapshot"
	"github.com/temirov/ctxpick/internal/structure"
	"github.com/temirov/ctxpick/internal/tokenizer"
	"github.com/temirov/ctxpick/internal/types"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	previewUse              = "preview [directory]"
	previewAlias            = "p"
	previewShortDescription = "print a preview of selected files (" + previewAlias + ")"

	// previewLongDescription provides detailed help for the preview command.
	previewLongDescription = `Load a directory, select files and print the preview: a directory structure block
followed by one block per selected file. Each --select path is relative to the directory;
selecting a directory selects every file below it. Without --select the whole directory is selected.
Use --format to select raw, json, or xml output.`
	// previewUsageExample demonstrates preview command usage.
	previewUsageExample = `  # Preview two files of the current project
  ctxpick preview --select cmd/main.go --select README.md

  # Preview a package as JSON with token counts and copy it
  ctxpick preview ./service --select internal/api --format json --tokens --copy`

	selectFlagName         = "select"
	formatFlagName         = "format"
	summaryFlagName        = "summary"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	copyFlagName           = "copy"
	selectFlagDescription  = "path to select, relative to the directory (repeatable)"
	formatFlagDescription  = "output format (raw, json, xml)"
	summaryFlagDescription = "include summary of resulting files"
	tokensFlagDescription  = "include token counts"
	modelFlagDescription   = "tokenizer model to use for token counting"
	copyFlagDescription    = "copy the output to the clipboard"

	invalidFormatMessage        = "Invalid format value '%s'"
	loadSnapshotErrorFormat     = "load %s: %w"
	createCounterErrorFormat    = "initialize tokenizer: %w"
	renderPreviewErrorFormat    = "render preview: %w"
	writePreviewErrorFormat     = "write preview: %w"
	selectionMissingMessage     = "selection not found; skipping"
	tokenCountFailedMessage     = "failed to count tokens"
	previewBuiltMessage         = "preview built"
	copyFailedMessage           = "failed to copy preview to clipboard"
	nothingToCopyMessage        = "nothing to copy"
	clipboardUnsupportedMessage = "system clipboard is not supported on this platform"
	selectionFieldName          = "selection"
	pathFieldName               = "path"
	filesFieldName              = "files"
	formatFieldName             = "format"
)

// previewRequest is the resolved input of one preview run.
type previewRequest struct {
	directory       string
	selections      []string
	format          string
	summary         bool
	tokens          bool
	model           string
	copyToClipboard bool
}

// createPreviewCommand returns the preview subcommand.
func createPreviewCommand(state *application) *cobra.Command {
	var pathConfiguration pathOptions
	var selections []string
	var outputFormat string
	var summaryEnabled bool
	var tokensEnabled bool
	var tokenModel string
	var copyEnabled bool

	previewCommand := &cobra.Command{
		Use:     previewUse,
		Aliases: []string{previewAlias},
		Short:   previewShortDescription,
		Long:    previewLongDescription,
		Example: previewUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			directory, directoryErr := resolveDirectory(arguments)
			if directoryErr != nil {
				return directoryErr
			}
			configured := state.configuration.Preview
			flags := command.Flags()

			request := previewRequest{
				directory:       directory.AbsolutePath,
				selections:      selections,
				format:          types.FormatRaw,
				summary:         boolSetting(configured.Summary, false),
				tokens:          boolSetting(configured.Tokens.Enabled, false),
				model:           tokenizer.DefaultModel,
				copyToClipboard: boolSetting(configured.Clipboard, false),
			}
			if configured.Format != "" {
				request.format = configured.Format
			}
			if configured.Tokens.Model != "" {
				request.model = configured.Tokens.Model
			}
			if flags.Changed(formatFlagName) {
				request.format = outputFormat
			}
			if flags.Changed(summaryFlagName) {
				request.summary = summaryEnabled
			}
			if flags.Changed(tokensFlagName) {
				request.tokens = tokensEnabled
			}
			if flags.Changed(modelFlagName) {
				request.model = tokenModel
			}
			if flags.Changed(copyFlagName) {
				request.copyToClipboard = copyEnabled
			}
			request.format = normalizeFormat(request.format)
			if !isSupportedFormat(request.format) {
				return fmt.Errorf(invalidFormatMessage, request.format)
			}

			return state.runPreview(command.Context(), request, pathConfiguration.resolve(command, configured.Paths))
		},
	}

	addPathFlags(previewCommand, &pathConfiguration)
	previewCommand.Flags().StringArrayVar(&selections, selectFlagName, nil, selectFlagDescription)
	previewCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(previewCommand.Flags(), &summaryEnabled, summaryFlagName, false, summaryFlagDescription)
	registerBooleanFlag(previewCommand.Flags(), &tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	previewCommand.Flags().StringVar(&tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(previewCommand.Flags(), &copyEnabled, copyFlagName, false, copyFlagDescription)
	return previewCommand
}

func (state *application) runPreview(ctx context.Context, request previewRequest, ignoreOptions config.IgnoreOptions) error {
	logger := state.dependencies.Logger

	var tokenCounter tokenizer.Counter
	var resolvedModel string
	if request.tokens {
		createdCounter, modelName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: request.model})
		if counterError != nil {
			return fmt.Errorf(createCounterErrorFormat, counterError)
		}
		tokenCounter = createdCounter
		resolvedModel = modelName
	}

	root, loadErr := snapshot.NewProvider(logger, ignoreOptions).Load(ctx, request.directory)
	if loadErr != nil {
		return fmt.Errorf(loadSnapshotErrorFormat, request.directory, loadErr)
	}
	tree := applySelections(fstree.Initialize(root), request.directory, request.selections, logger)

	reader := content.NewReader(state.configuration.Content.WorkerCount(), logger)
	result := preview.Assemble(ctx, tree, reader)
	files := previewFiles(result.Files, tokenCounter, logger)

	document := types.PreviewOutput{
		Root:      request.directory,
		Structure: result.Structure,
		Files:     files,
	}
	if len(result.Files) == 0 {
		document.Message = result.Text
	}
	var summary *types.OutputSummary
	if request.summary {
		summary = output.Summarize(files, resolvedModel)
		document.Summary = summary
	}

	rendered, renderErr := output.Render(request.format, result.Text, document)
	if renderErr != nil {
		return fmt.Errorf(renderPreviewErrorFormat, renderErr)
	}
	if writeErr := output.WriteDocument(state.dependencies.Stdout, state.dependencies.Stderr, request.format, rendered, summary); writeErr != nil {
		return fmt.Errorf(writePreviewErrorFormat, writeErr)
	}
	logger.Debug(previewBuiltMessage, zap.Int(filesFieldName, len(files)), zap.String(formatFieldName, request.format))

	if request.copyToClipboard {
		state.copyArtifact(rendered)
	}
	return nil
}

// applySelections checks every selection below directory. With no selections
// the whole tree is selected. Unknown paths are logged and skipped.
func applySelections(tree fstree.Node, directory string, selections []string, logger *zap.Logger) fstree.Node {
	if len(selections) == 0 {
		return fstree.Check(tree, tree.Path())
	}
	for _, selection := range selections {
		selectedPath := filepath.Clean(filepath.Join(directory, filepath.FromSlash(selection)))
		if _, found := fstree.Find(tree, selectedPath); !found {
			logger.Warn(selectionMissingMessage, zap.String(selectionFieldName, selection))
			continue
		}
		tree = fstree.Check(tree, selectedPath)
	}
	return tree
}

func previewFiles(contents []preview.FileContent, counter tokenizer.Counter, logger *zap.Logger) []types.PreviewFile {
	files := make([]types.PreviewFile, 0, len(contents))
	for _, fileContent := range contents {
		sizeBytes := int64(len(fileContent.Content))
		file := types.PreviewFile{
			Path:      fileContent.Path,
			Name:      structure.BaseName(fileContent.Path),
			Content:   fileContent.Content,
			Size:      utils.FormatFileSize(sizeBytes),
			SizeBytes: sizeBytes,
		}
		if counter != nil {
			countResult, countErr := tokenizer.CountText(counter, fileContent.Content)
			if countErr != nil {
				logger.Warn(tokenCountFailedMessage, zap.String(pathFieldName, fileContent.Path), zap.Error(countErr))
			} else if countResult.Counted {
				file.Tokens = countResult.Tokens
			}
		}
		files = append(files, file)
	}
	return files
}

func boolSetting(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
