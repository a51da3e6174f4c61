package category

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	menuHeaderTemplateConstant           = "Enter the resource type, use one of the following codes or a %s to specify a special case\n"
	menuEntryTemplateConstant            = " %s: %s\n"
	customRequestedMessageConstant       = "Special resource type requested\n"
	customCodePromptConstant             = "Resource code:"
	customDescriptionPromptConstant      = "Resource description:"
	customRejectedTemplateConstant       = "Code %s not allowed to be used as a custom resource code\n\n"
	reservedRejectedTemplateConstant     = "Resource code %s is reserved, pick a different one\n\n"
	unknownRejectedTemplateConstant      = "Unknown resource code %s, pick a different one\n\n"
	selectorNotConfiguredMessageConstant = "category selector prompter not configured"
)

// LinePrompter reads one line of user input after displaying prompt.
type LinePrompter interface {
	ReadLine(executionContext context.Context, prompt string) (string, error)
}

// Selection is the outcome of an interactive category choice.
type Selection struct {
	Code        string
	Description string
	Custom      bool
}

// Selector runs the category menu against a catalog.
type Selector struct {
	catalog  Catalog
	prompter LinePrompter
	output   io.Writer
}

// NewSelector constructs a Selector writing menus to output.
func NewSelector(catalog Catalog, prompter LinePrompter, output io.Writer) *Selector {
	if output == nil {
		output = io.Discard
	}
	return &Selector{catalog: catalog, prompter: prompter, output: output}
}

// Select loops until the user picks a common code or a valid custom code.
func (selector *Selector) Select(executionContext context.Context) (Selection, error) {
	if selector == nil || selector.prompter == nil {
		return Selection{}, errors.New(selectorNotConfiguredMessageConstant)
	}

	for {
		selector.printMenu()

		enteredCode, readError := selector.prompter.ReadLine(executionContext, "")
		if readError != nil {
			return Selection{}, readError
		}
		enteredCode = strings.TrimSpace(enteredCode)

		if selector.catalog.IsCustomSelector(enteredCode) {
			selection, accepted, customError := selector.selectCustom(executionContext)
			if customError != nil {
				return Selection{}, customError
			}
			if accepted {
				return selection, nil
			}
			continue
		}

		if selector.catalog.IsReserved(enteredCode) {
			fmt.Fprintf(selector.output, reservedRejectedTemplateConstant, enteredCode)
			continue
		}

		selectedCategory, known := selector.catalog.Lookup(enteredCode)
		if !known {
			fmt.Fprintf(selector.output, unknownRejectedTemplateConstant, enteredCode)
			continue
		}

		return Selection{Code: selectedCategory.Code, Description: selectedCategory.Description}, nil
	}
}

func (selector *Selector) selectCustom(executionContext context.Context) (Selection, bool, error) {
	fmt.Fprint(selector.output, customRequestedMessageConstant)

	customCode, codeError := selector.prompter.ReadLine(executionContext, customCodePromptConstant)
	if codeError != nil {
		return Selection{}, false, codeError
	}
	customCode = strings.TrimSpace(customCode)

	if validationError := selector.catalog.ValidateCustomCode(customCode); validationError != nil {
		fmt.Fprintf(selector.output, customRejectedTemplateConstant, customCode)
		return Selection{}, false, nil
	}

	customDescription, descriptionError := selector.prompter.ReadLine(executionContext, customDescriptionPromptConstant)
	if descriptionError != nil {
		return Selection{}, false, descriptionError
	}

	return Selection{Code: customCode, Description: strings.TrimSpace(customDescription), Custom: true}, true, nil
}

func (selector *Selector) printMenu() {
	fmt.Fprintf(selector.output, menuHeaderTemplateConstant, selector.catalog.custom.Code)
	for _, entry := range selector.catalog.Menu() {
		fmt.Fprintf(selector.output, menuEntryTemplateConstant, entry.Code, entry.Description)
	}
}
