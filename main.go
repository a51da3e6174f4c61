package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/mtracker/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the mtracker command-line application.
func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.Execute(executionContext)
	stop()

	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCodeForError(executionError))
}
