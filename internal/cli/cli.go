// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/ctxpick/internal/config"
	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/services/clipboard"
	"github.com/temirov/ctxpick/internal/tui"
	"github.com/temirov/ctxpick/internal/types"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	configFlagName         = "config"
	debugFlagName          = "debug"
	versionFlagName        = "version"
	versionTemplate        = "ctxpick version: %s\n"
	rootUse                = utils.ApplicationName
	rootShortDescription   = "ctxpick command line interface"
	rootLongDescription    = `ctxpick builds a pasteable preview of a project: an ASCII tree of the selected files followed by their contents.
Use preview to select files from the command line, browse to pick them interactively, and init to write a default configuration.`
	configFlagDescription  = "path to a configuration file (default ./" + utils.ConfigFileName + ")"
	debugFlagDescription   = "enable debug logging"
	versionFlagDescription = "display application version"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loadConfigurationErrorFmt   = "load configuration: %w"
)

// Dependencies carries the collaborators of the command tree. Zero values are
// replaced with the production implementations.
type Dependencies struct {
	Logger     *zap.Logger
	Stdout     io.Writer
	Stderr     io.Writer
	Copier     clipboard.Copier
	IsTerminal func() bool
	RunBrowse  func(ctx context.Context, root *fstree.Directory, options tui.Options) (tui.Model, error)
}

// application is the state shared by the commands of one invocation.
type application struct {
	dependencies     Dependencies
	configPath       string
	configuration    config.ApplicationConfiguration
	workingDirectory string
}

// Execute runs the ctxpick application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	return ExecuteWithArguments(ctx, Dependencies{Logger: logger}, os.Args[1:])
}

// ExecuteWithArguments runs the command tree against arguments.
func ExecuteWithArguments(ctx context.Context, dependencies Dependencies, arguments []string) error {
	rootCommand := createRootCommand(withDefaults(dependencies))
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(ctx)
}

// DebugRequested reports whether arguments ask for debug logging. It runs
// before the command tree exists so main can build the logger first.
func DebugRequested(arguments []string) bool {
	var debugEnabled bool
	flagSet := pflag.NewFlagSet(debugFlagName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.ParseErrorsWhitelist.UnknownFlags = true
	registerBooleanFlag(flagSet, &debugEnabled, debugFlagName, false, debugFlagDescription)
	_ = flagSet.Parse(arguments)
	return debugEnabled
}

func withDefaults(dependencies Dependencies) Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Copier == nil {
		if clipboard.Unsupported() {
			dependencies.Logger.Debug(clipboardUnsupportedMessage)
		}
		dependencies.Copier = clipboard.NewService(dependencies.Logger)
	}
	if dependencies.IsTerminal == nil {
		dependencies.IsTerminal = func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		}
	}
	if dependencies.RunBrowse == nil {
		dependencies.RunBrowse = func(ctx context.Context, root *fstree.Directory, options tui.Options) (tui.Model, error) {
			return tui.Run(root, options, tea.WithAltScreen(), tea.WithContext(ctx))
		}
	}
	return dependencies
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies Dependencies) *cobra.Command {
	state := &application{dependencies: dependencies}
	var showVersion bool
	var debugEnabled bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, writeErr := fmt.Fprintf(dependencies.Stdout, versionTemplate, utils.GetApplicationVersion())
				return writeErr
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return state.loadConfiguration()
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.PersistentFlags().StringVar(&state.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &debugEnabled, debugFlagName, false, debugFlagDescription)
	registerBooleanFlag(rootCommand.Flags(), &showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createPreviewCommand(state),
		createBrowseCommand(state),
		createInitCommand(state),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func (state *application) loadConfiguration() error {
	workingDirectory, workingDirectoryErr := os.Getwd()
	if workingDirectoryErr != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryErr)
	}
	state.workingDirectory = workingDirectory
	loaded, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: state.configPath,
	})
	if loadErr != nil {
		return fmt.Errorf(loadConfigurationErrorFmt, loadErr)
	}
	state.configuration = loaded
	return nil
}

// copyArtifact copies text when enabled. A failed copy never fails the command.
func (state *application) copyArtifact(text string) {
	logger := state.dependencies.Logger
	if copyErr := state.dependencies.Copier.Copy(text); copyErr != nil {
		if errors.Is(copyErr, clipboard.ErrEmptyText) {
			logger.Info(nothingToCopyMessage)
			return
		}
		logger.Warn(copyFailedMessage, zap.Error(copyErr))
	}
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
