package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpick/internal/services/content"
	"github.com/temirov/ctxpick/internal/services/snapshot"
	"github.com/temirov/ctxpick/internal/tui"
)

const (
	browseUse              = "browse [directory]"
	browseAlias            = "b"
	browseShortDescription = "pick files interactively (" + browseAlias + ")"

	// browseLongDescription provides detailed help for the browse command.
	browseLongDescription = `Open an interactive tree of the directory. Toggle files and directories with space,
expand with enter, and press / to jump to a file. The preview on the right follows every change.
Press y to copy the preview, or pass --copy to copy the final preview on exit.`
	// browseUsageExample demonstrates browse command usage.
	browseUsageExample = `  # Browse the current project
  ctxpick browse

  # Browse a directory and copy the final preview when quitting
  ctxpick browse ./service --copy`

	browseCopyFlagDescription = "copy the final preview to the clipboard on exit"
	browseProgramErrorFormat  = "run browse view: %w"
)

var errNotTerminal = errors.New("browse requires an interactive terminal; use preview instead")

// createBrowseCommand returns the browse subcommand.
func createBrowseCommand(state *application) *cobra.Command {
	var pathConfiguration pathOptions
	var copyEnabled bool

	browseCommand := &cobra.Command{
		Use:     browseUse,
		Aliases: []string{browseAlias},
		Short:   browseShortDescription,
		Long:    browseLongDescription,
		Example: browseUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if !state.dependencies.IsTerminal() {
				return errNotTerminal
			}
			directory, directoryErr := resolveDirectory(arguments)
			if directoryErr != nil {
				return directoryErr
			}
			configured := state.configuration.Browse
			copyOnExit := boolSetting(configured.Clipboard, false)
			if command.Flags().Changed(copyFlagName) {
				copyOnExit = copyEnabled
			}

			ctx := command.Context()
			logger := state.dependencies.Logger
			root, loadErr := snapshot.NewProvider(logger, pathConfiguration.resolve(command, configured.Paths)).Load(ctx, directory.AbsolutePath)
			if loadErr != nil {
				return fmt.Errorf(loadSnapshotErrorFormat, directory.AbsolutePath, loadErr)
			}

			finalModel, runErr := state.dependencies.RunBrowse(ctx, root, tui.Options{
				Context: ctx,
				Fetcher: content.NewReader(state.configuration.Content.WorkerCount(), logger),
				Copier:  state.dependencies.Copier,
				Logger:  logger,
			})
			if runErr != nil {
				return fmt.Errorf(browseProgramErrorFormat, runErr)
			}

			if !copyOnExit {
				return nil
			}
			artifact, available := finalModel.Artifact()
			if !available {
				logger.Info(nothingToCopyMessage)
				return nil
			}
			state.copyArtifact(artifact)
			return nil
		},
	}

	addPathFlags(browseCommand, &pathConfiguration)
	registerBooleanFlag(browseCommand.Flags(), &copyEnabled, copyFlagName, false, browseCopyFlagDescription)
	return browseCommand
}
