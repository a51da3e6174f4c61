package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/mtracker/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/curator"

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name         string
		provider     pathutils.HomeDirectoryProvider
		candidate    string
		expectedPath string
	}{
		{name: "bare_tilde", candidate: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", candidate: "~/media/movies", expectedPath: filepath.Join(testHomeDirectoryConstant, "media", "movies")},
		{name: "absolute_path", candidate: "/mnt/d/movies", expectedPath: "/mnt/d/movies"},
		{name: "relative_path", candidate: "movies", expectedPath: "movies"},
		{name: "other_user", candidate: "~archivist/movies", expectedPath: "~archivist/movies"},
		{name: "empty_path", candidate: "", expectedPath: ""},
		{
			name:         "home_lookup_failure",
			provider:     func() (string, error) { return "", errors.New("no home") },
			candidate:    "~/movies",
			expectedPath: "~/movies",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			provider := testCase.provider
			if provider == nil {
				provider = func() (string, error) { return testHomeDirectoryConstant, nil }
			}
			expander := pathutils.NewHomeExpanderWithProvider(provider)
			require.Equal(subTest, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}
