// Package prompt reads interactive answers from a console.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

const (
	inputClosedMessageConstant = "user input closed"
	lineTerminatorsConstant    = "\r\n"
)

// ErrInputClosed reports that the input stream ended before an answer was given.
var ErrInputClosed = errors.New(inputClosedMessageConstant)

type lineResult struct {
	line string
	err  error
}

// IOPrompter reads answers from an io.Reader and writes prompts to an io.Writer.
// A read blocked on input is abandoned when the context is cancelled; the line
// it eventually yields is handed to the next ReadLine call.
type IOPrompter struct {
	reader  *bufio.Reader
	writer  io.Writer
	pending chan lineResult
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// ReadLine writes prompt and returns the next input line without its terminator.
func (prompter *IOPrompter) ReadLine(executionContext context.Context, prompt string) (string, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}

	if prompter.writer != nil && len(prompt) > 0 {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	resultChannel := prompter.pending
	if resultChannel == nil {
		resultChannel = make(chan lineResult, 1)
		go func() {
			line, readError := prompter.reader.ReadString('\n')
			resultChannel <- lineResult{line: line, err: readError}
		}()
	}

	select {
	case <-executionContext.Done():
		prompter.pending = resultChannel
		return "", executionContext.Err()
	case result := <-resultChannel:
		prompter.pending = nil
		return interpretLine(result)
	}
}

// Confirm writes prompt and interprets affirmative responses (y/yes).
// A closed input counts as a refusal.
func (prompter *IOPrompter) Confirm(executionContext context.Context, prompt string) (bool, error) {
	response, readError := prompter.ReadLine(executionContext, prompt)
	if readError != nil {
		if errors.Is(readError, ErrInputClosed) {
			return false, nil
		}
		return false, readError
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func interpretLine(result lineResult) (string, error) {
	if result.err != nil && result.err != io.EOF {
		return "", result.err
	}
	if result.err == io.EOF && len(result.line) == 0 {
		return "", ErrInputClosed
	}
	return strings.TrimRight(result.line, lineTerminatorsConstant), nil
}
