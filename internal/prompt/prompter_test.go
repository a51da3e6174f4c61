package prompt_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mtracker/internal/prompt"
)

const (
	testPromptTextConstant = "Enter the name of the tracked resource [Inception]: "
)

func TestIOPrompterReadLine(testInstance *testing.T) {
	outputBuffer := &strings.Builder{}
	prompter := prompt.NewIOPrompter(strings.NewReader("first answer\r\n\nlast without newline"), outputBuffer)

	firstLine, firstError := prompter.ReadLine(context.Background(), testPromptTextConstant)
	require.NoError(testInstance, firstError)
	require.Equal(testInstance, "first answer", firstLine)
	require.Equal(testInstance, testPromptTextConstant, outputBuffer.String())

	blankLine, blankError := prompter.ReadLine(context.Background(), "")
	require.NoError(testInstance, blankError)
	require.Equal(testInstance, "", blankLine)

	lastLine, lastError := prompter.ReadLine(context.Background(), "")
	require.NoError(testInstance, lastError)
	require.Equal(testInstance, "last without newline", lastLine)

	_, closedError := prompter.ReadLine(context.Background(), "")
	require.ErrorIs(testInstance, closedError, prompt.ErrInputClosed)
}

func TestIOPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name              string
		input             string
		expectedConfirmed bool
	}{
		{name: "lowercase_y", input: "y\n", expectedConfirmed: true},
		{name: "uppercase_yes", input: "YES\n", expectedConfirmed: true},
		{name: "no", input: "n\n", expectedConfirmed: false},
		{name: "blank", input: "\n", expectedConfirmed: false},
		{name: "closed_input", input: "", expectedConfirmed: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			prompter := prompt.NewIOPrompter(strings.NewReader(testCase.input), io.Discard)
			confirmed, confirmError := prompter.Confirm(context.Background(), "Confirm overwrite (y/N)")
			require.NoError(subTest, confirmError)
			require.Equal(subTest, testCase.expectedConfirmed, confirmed)
		})
	}
}

func TestIOPrompterAbandonsReadOnCancellation(testInstance *testing.T) {
	pipeReader, pipeWriter := io.Pipe()
	testInstance.Cleanup(func() {
		_ = pipeWriter.Close()
	})

	prompter := prompt.NewIOPrompter(pipeReader, io.Discard)

	cancellableContext, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, readError := prompter.ReadLine(cancellableContext, "")
	require.ErrorIs(testInstance, readError, context.Canceled)

	go func() {
		_, _ = io.WriteString(pipeWriter, "late answer\n")
	}()

	lateLine, lateError := prompter.ReadLine(context.Background(), "")
	require.NoError(testInstance, lateError)
	require.Equal(testInstance, "late answer", lateLine)
}

func TestIOPrompterRejectsCancelledContext(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	prompter := prompt.NewIOPrompter(strings.NewReader("ignored\n"), io.Discard)
	_, readError := prompter.ReadLine(cancelledContext, "")
	require.ErrorIs(testInstance, readError, context.Canceled)
}
