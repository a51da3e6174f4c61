package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/mtracker/cmd/cli"
	"github.com/temirov/mtracker/internal/category"
	"github.com/temirov/mtracker/internal/pathnorm"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

func extractConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)
	contentText := string(contentBytes)

	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	startIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, startIndex, missingStartFenceMessageConstant)

	snippetStart := startIndex + len(yamlFenceStartConstant)
	endOffset := strings.Index(contentText[snippetStart:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, endOffset, missingEndFenceMessageConstant)

	return contentText[snippetStart : snippetStart+endOffset]
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	var document map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(extractConfigurationSnippet(testInstance)), &document))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, mapstructure.Decode(document, &configuration))

	_, modeError := pathnorm.ParseMode(configuration.Common.PathTranslation)
	require.NoError(testInstance, modeError)
	require.Equal(testInstance, "nas", configuration.Tools.Scan.DeviceMarker)

	catalog, catalogError := category.CatalogFromSettings(configuration.Tools.Mark.Catalog)
	require.NoError(testInstance, catalogError)

	boardGames, known := catalog.Lookup("7")
	require.True(testInstance, known)
	require.Equal(testInstance, "Board games", boardGames.Description)
	require.True(testInstance, catalog.IsReserved("150"))
}
