package cli

import (
	"context"
	"errors"

	"github.com/temirov/mtracker/internal/mark"
)

// Process exit codes.
const (
	ExitCodeSuccess           = 0
	ExitCodeFailure           = 1
	ExitCodeInterrupted       = 2
	ExitCodeWriteFailed       = 3
	ExitCodeCollisionDeclined = 4
)

var failureKindExitCodes = map[mark.FailureKind]int{
	mark.FailureEncoding:          ExitCodeFailure,
	mark.FailureInterrupted:       ExitCodeInterrupted,
	mark.FailureWrite:             ExitCodeWriteFailed,
	mark.FailureCollisionDeclined: ExitCodeCollisionDeclined,
}

// ExitCodeForError maps a command error to the process exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if kind, classified := mark.FailureKindOf(err); classified {
		if exitCode, known := failureKindExitCodes[kind]; known {
			return exitCode
		}
	}
	if errors.Is(err, context.Canceled) {
		return ExitCodeInterrupted
	}
	return ExitCodeFailure
}
