package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/nbtscan/internal/runner"
)

func main() {
	options := runner.ParseOptions()
	nbtscanRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}
	defer nbtscanRunner.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler
	go func() {
		<-c
		fmt.Fprintln(os.Stderr, "\r- Ctrl+C pressed in Terminal, Exiting...")
		cancel()
	}()

	err = nbtscanRunner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		gologger.Fatal().Msgf("Could not run nbtscan: %s\n", err)
	}
}
