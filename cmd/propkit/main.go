// Command propkit inspects declarative property schemas and checks values
// against them.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/propkit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
