package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxpick/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.ctxpick.yaml, or to ~/.ctxpick/.ctxpick.yaml with --global.
Existing files are kept unless --force is given.`

	globalFlagName        = "global"
	forceFlagName         = "force"
	globalFlagDescription = "write the global configuration"
	forceFlagDescription  = "overwrite an existing configuration file"
	initWrittenTemplate   = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(state *application) *cobra.Command {
	var globalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		// Configuration is not loaded for init.
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initErr != nil {
				return initErr
			}
			_, writeErr := fmt.Fprintf(state.dependencies.Stdout, initWrittenTemplate, writtenPath)
			return writeErr
		},
	}

	registerBooleanFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
