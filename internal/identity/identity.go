// Package identity derives the durable resource identity stored as the key of
// a marker record.
package identity

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	identitySeparatorConstant          = "-"
	randomSuffixLengthConstant         = 8
	confirmationPromptTemplateConstant = "Confirm or change the resource ID [%s]:"
)

// SuffixSource yields random text for identity suffixes.
type SuffixSource func() string

// UUIDSuffixSource returns the first eight hex characters of a random UUID.
func UUIDSuffixSource() string {
	return uuid.NewString()[:randomSuffixLengthConstant]
}

// SanitizeName keeps letters, digits and spaces, then trims trailing spaces.
func SanitizeName(resourceName string) string {
	var builder strings.Builder
	for _, character := range resourceName {
		if unicode.IsLetter(character) || unicode.IsDigit(character) || character == ' ' {
			builder.WriteRune(character)
		}
	}
	return strings.TrimRight(builder.String(), " ")
}

// Generator proposes resource identities.
type Generator struct {
	suffixSource SuffixSource
}

// NewGenerator constructs a Generator. A nil source selects UUIDSuffixSource.
func NewGenerator(suffixSource SuffixSource) *Generator {
	if suffixSource == nil {
		suffixSource = UUIDSuffixSource
	}
	return &Generator{suffixSource: suffixSource}
}

// Propose builds "<name>-<code>-<suffix>" with every space removed.
func (generator *Generator) Propose(resourceName string, resourceCode string) string {
	proposed := SanitizeName(resourceName) + identitySeparatorConstant + resourceCode + identitySeparatorConstant + generator.suffixSource()
	return strings.ReplaceAll(proposed, " ", "")
}

// LinePrompter reads one line of user input after displaying prompt.
type LinePrompter interface {
	ReadLine(executionContext context.Context, prompt string) (string, error)
}

// Confirm shows the proposed identity and returns it, or the user's replacement
// when a non-blank answer is given. Replacements are taken as typed.
func Confirm(executionContext context.Context, prompter LinePrompter, proposed string) (string, error) {
	answer, readError := prompter.ReadLine(executionContext, fmt.Sprintf(confirmationPromptTemplateConstant, proposed))
	if readError != nil {
		return "", readError
	}
	if len(strings.TrimSpace(answer)) == 0 {
		return proposed, nil
	}
	return answer, nil
}
