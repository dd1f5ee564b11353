package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/dxfsvg/internal/cli"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if code != cli.ExitOK && code != cli.ExitInterrupt {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
	}
	cancel()
	os.Exit(code)
}
