// Command peano evaluates arithmetic over unary natural numbers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/peano/internal/cli"
	"github.com/roach88/peano/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "peano: %v\n", err)
		return cli.ExitCommandError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "peano: %v\n", err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
