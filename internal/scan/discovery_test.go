package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/scan"
)

func createMarkerFile(testInstance *testing.T, directory string, contents string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(directory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(directory, marker.DefaultFileNameConstant), []byte(contents), 0o644))
}

func TestDiscoverMarkerDirectories(testInstance *testing.T) {
	root := testInstance.TempDir()
	createMarkerFile(testInstance, filepath.Join(root, "movies", "Inception"), `{}`)
	createMarkerFile(testInstance, filepath.Join(root, "games"), `{}`)
	createMarkerFile(testInstance, filepath.Join(root, "games", "Doom"), `{}`)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(testInstance, os.MkdirAll(filepath.Join(root, "decoy", marker.DefaultFileNameConstant), 0o755))

	discoverer := scan.NewMarkerDiscoverer(marker.NewStore(nil, ""), nil)
	directories, discoveryError := discoverer.DiscoverMarkerDirectories(context.Background(), root)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{
		filepath.Join(root, "games"),
		filepath.Join(root, "games", "Doom"),
		filepath.Join(root, "movies", "Inception"),
	}, directories)
}

func TestDiscoverMarkerDirectoriesIncludesRoot(testInstance *testing.T) {
	root := testInstance.TempDir()
	createMarkerFile(testInstance, root, `{}`)

	discoverer := scan.NewMarkerDiscoverer(marker.NewStore(nil, ""), nil)
	directories, discoveryError := discoverer.DiscoverMarkerDirectories(context.Background(), root)
	require.NoError(testInstance, discoveryError)
	require.Equal(testInstance, []string{root}, directories)
}

func TestDiscoverMarkerDirectoriesErrors(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	testCases := []struct {
		name    string
		context context.Context
		root    string
	}{
		{name: "missing_root", context: context.Background(), root: filepath.Join(testInstance.TempDir(), "absent")},
		{name: "cancelled", context: cancelledContext, root: testInstance.TempDir()},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			discoverer := scan.NewMarkerDiscoverer(marker.NewStore(nil, ""), nil)
			directories, discoveryError := discoverer.DiscoverMarkerDirectories(testCase.context, testCase.root)
			require.Error(subTest, discoveryError)
			require.Nil(subTest, directories)
		})
	}
}
