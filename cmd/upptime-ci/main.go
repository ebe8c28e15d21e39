package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"github.com/futureCreator/upptime-ci/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "upptime-ci: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
