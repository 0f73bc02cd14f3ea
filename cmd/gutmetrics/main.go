package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/omicsworks/gutmetrics/internal/app"
	"github.com/omicsworks/gutmetrics/internal/cli"
	hclloader "github.com/omicsworks/gutmetrics/internal/hcl"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic during startup: %v", r)
		}
	}()

	appConfig, exit, err := cli.Parse(args, outW)
	if err != nil || exit {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(outW, appConfig, hclloader.NewLoader(), app.CoreModules()...)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
