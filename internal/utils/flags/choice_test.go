package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "path_translation_default_first",
			defaultChoice:  "auto",
			choices:        []string{"auto", "always", "never"},
			description:    "Translate /mnt/<drive> paths to drive letters.",
			expectedOutput: "`<AUTO|always|never>` Translate /mnt/<drive> paths to drive letters.",
		},
		{
			name:           "log_format_default_last",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Diagnostic log encoding.",
			expectedOutput: "`<structured|CONSOLE>` Diagnostic log encoding.",
		},
		{
			name:           "empty_description",
			defaultChoice:  "warn",
			choices:        []string{"debug", "warn"},
			expectedOutput: "`<debug|WARN>`",
		},
		{
			name:           "duplicates_and_blanks_ignored",
			defaultChoice:  "never",
			choices:        []string{" never ", "NEVER", "", "always"},
			description:    "Pick a mode.",
			expectedOutput: "`<NEVER|always>` Pick a mode.",
		},
		{
			name:           "unknown_default",
			defaultChoice:  "",
			choices:        []string{"auto", "never"},
			description:    "Pick a mode.",
			expectedOutput: "`<auto|never>` Pick a mode.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
