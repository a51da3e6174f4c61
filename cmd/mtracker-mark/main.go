package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/mtracker/cmd/cli"
)

const (
	toolNameConstant          = "mark"
	exitErrorTemplateConstant = "%v\n"
)

func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.ExecuteTool(executionContext, toolNameConstant, os.Args[1:])
	stop()

	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCodeForError(executionError))
}
