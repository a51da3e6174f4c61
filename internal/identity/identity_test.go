package identity_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mtracker/internal/identity"
)

const (
	testFixedSuffixConstant = "1a2b3c4d"
)

var uuidSuffixPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func fixedSuffix() string {
	return testFixedSuffixConstant
}

func TestGeneratorPropose(testInstance *testing.T) {
	testCases := []struct {
		name             string
		resourceName     string
		resourceCode     string
		expectedIdentity string
	}{
		{name: "simple_name", resourceName: "Inception", resourceCode: "1", expectedIdentity: "Inception-1-1a2b3c4d"},
		{name: "spaces_removed", resourceName: "The Dark Knight ", resourceCode: "1", expectedIdentity: "TheDarkKnight-1-1a2b3c4d"},
		{name: "punctuation_dropped", resourceName: "Half-Life: Alyx (2020)!", resourceCode: "3", expectedIdentity: "HalfLifeAlyx2020-3-1a2b3c4d"},
		{name: "unicode_letters_kept", resourceName: "Amélie", resourceCode: "1", expectedIdentity: "Amélie-1-1a2b3c4d"},
		{name: "empty_sanitized_name", resourceName: "!!! ---", resourceCode: "4", expectedIdentity: "-4-1a2b3c4d"},
		{name: "custom_code_with_space", resourceName: "Maps", resourceCode: "map set", expectedIdentity: "Maps-mapset-1a2b3c4d"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			generator := identity.NewGenerator(fixedSuffix)
			require.Equal(subTest, testCase.expectedIdentity, generator.Propose(testCase.resourceName, testCase.resourceCode))
		})
	}
}

func TestUUIDSuffixSourceYieldsEightHexCharacters(testInstance *testing.T) {
	first := identity.UUIDSuffixSource()
	second := identity.UUIDSuffixSource()

	require.Regexp(testInstance, uuidSuffixPattern, first)
	require.Regexp(testInstance, uuidSuffixPattern, second)
	require.NotEqual(testInstance, first, second)
}

func TestSanitizeName(testInstance *testing.T) {
	require.Equal(testInstance, "Blade Runner 2049", identity.SanitizeName("Blade Runner: 2049  "))
	require.Equal(testInstance, "", identity.SanitizeName("   "))
}

type fixedAnswerPrompter struct {
	answer         string
	answerError    error
	receivedPrompt string
}

func (prompter *fixedAnswerPrompter) ReadLine(_ context.Context, prompt string) (string, error) {
	prompter.receivedPrompt = prompt
	return prompter.answer, prompter.answerError
}

func TestConfirm(testInstance *testing.T) {
	acceptingPrompter := &fixedAnswerPrompter{answer: ""}
	accepted, acceptError := identity.Confirm(context.Background(), acceptingPrompter, "Inception-1-1a2b3c4d")
	require.NoError(testInstance, acceptError)
	require.Equal(testInstance, "Inception-1-1a2b3c4d", accepted)
	require.Equal(testInstance, "Confirm or change the resource ID [Inception-1-1a2b3c4d]:", acceptingPrompter.receivedPrompt)

	overridden, overrideError := identity.Confirm(context.Background(), &fixedAnswerPrompter{answer: "my shared id!"}, "Inception-1-1a2b3c4d")
	require.NoError(testInstance, overrideError)
	require.Equal(testInstance, "my shared id!", overridden)

	_, readError := identity.Confirm(context.Background(), &fixedAnswerPrompter{answerError: context.Canceled}, "x")
	require.True(testInstance, errors.Is(readError, context.Canceled))
}
