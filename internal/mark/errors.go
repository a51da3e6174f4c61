package mark

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/mtracker/internal/prompt"
)

// FailureKind classifies why a mark operation stopped.
type FailureKind int

// Mark failure kinds.
const (
	// FailureEncoding reports marker data that could not be serialized.
	FailureEncoding FailureKind = iota + 1
	// FailureInterrupted reports an interrupt or closed input while prompting.
	FailureInterrupted
	// FailureWrite reports a marker file that could not be written.
	FailureWrite
	// FailureCollisionDeclined reports a refused overwrite of an existing identity.
	FailureCollisionDeclined
)

const (
	encodingFailureMessageConstant          = "failed to create M-Tracker marker, JSON encoding error"
	interruptedMessageConstant              = "M-Tracker marker setup cancelled."
	writeFailureMessageConstant             = "failed to write M-Tracker marker"
	collisionDeclinedMessageConstant        = "M-Tracker marker cancelled by user!"
	unknownFailureMessageConstant           = "M-Tracker marker failed"
	operationErrorWithCauseTemplateConstant = "%s: %v"
)

// OperationError is returned by Service.Run when a mark operation cannot complete.
type OperationError struct {
	Kind  FailureKind
	Cause error
}

// Error describes the failure.
func (operationError *OperationError) Error() string {
	message := operationError.Kind.message()
	switch operationError.Kind {
	case FailureEncoding, FailureWrite:
		if operationError.Cause != nil {
			return fmt.Sprintf(operationErrorWithCauseTemplateConstant, message, operationError.Cause)
		}
	}
	return message
}

// Unwrap exposes the underlying cause.
func (operationError *OperationError) Unwrap() error {
	return operationError.Cause
}

func (kind FailureKind) message() string {
	switch kind {
	case FailureEncoding:
		return encodingFailureMessageConstant
	case FailureInterrupted:
		return interruptedMessageConstant
	case FailureWrite:
		return writeFailureMessageConstant
	case FailureCollisionDeclined:
		return collisionDeclinedMessageConstant
	default:
		return unknownFailureMessageConstant
	}
}

// FailureKindOf extracts the failure kind carried by err.
func FailureKindOf(err error) (FailureKind, bool) {
	var operationError *OperationError
	if errors.As(err, &operationError) {
		return operationError.Kind, true
	}
	return 0, false
}

func newOperationError(kind FailureKind, cause error) error {
	return &OperationError{Kind: kind, Cause: cause}
}

// classifyPromptError maps cancellation and closed input to FailureInterrupted.
func classifyPromptError(promptError error) error {
	if errors.Is(promptError, context.Canceled) || errors.Is(promptError, context.DeadlineExceeded) || errors.Is(promptError, prompt.ErrInputClosed) {
		return newOperationError(FailureInterrupted, promptError)
	}
	return promptError
}
