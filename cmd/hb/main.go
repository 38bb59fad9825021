package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"haulboard/internal/cli"
	"haulboard/internal/errors"
	"haulboard/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root := cli.NewRootCommand(cli.DefaultBackend)
	err := root.Execute(ctx)
	stop()

	if err != nil {
		if errors.IsAppError(err) && errors.ShouldLogError(err) {
			log := logging.New("hb")
			log.Error().Err(err).Str("code", errors.GetErrorCode(err)).Msg("command failed")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", cli.NewErrorHandler().HandleSimple(err))
	}
	os.Exit(cli.ExitCode(err))
}
