package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/temirov/ctxpick/internal/cli"
	"github.com/temirov/ctxpick/internal/utils"
)

// main is the entry point for the ctxpick command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(cli.DebugRequested(os.Args[1:]))
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if applicationExecutionError := cli.Execute(ctx, loggerInstance); applicationExecutionError != nil {
		stop()
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
