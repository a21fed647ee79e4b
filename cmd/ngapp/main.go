// Command ngapp scaffolds AngularJS projects.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-scaffold/ngapp/cmd/ngapp/cmd"
	"github.com/go-scaffold/ngapp/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	errors.SetHandler(&errors.LogHandler{Out: os.Stderr, Verbose: verbose(os.Args[1:])})

	defer errors.Recover("ngapp", func(any) { code = 1 })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.Execute(ctx)
	if err != nil {
		errors.Report(&errors.ScaffoldError{
			Op:   "ngapp",
			Kind: errors.KindOf(err),
			Err:  err,
		})
	}
	return errors.ExitCode(err)
}

func verbose(args []string) bool {
	for _, a := range args {
		if a == "--verbose" {
			return true
		}
	}
	return false
}
