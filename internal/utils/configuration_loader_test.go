package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mtracker/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTMTRACKER"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigFileNameConstant        = "config.yaml"
	testPathTranslationKeyConstant    = "common.path_translation"
	testDeviceMarkerKeyConstant       = "tools.scan.device_marker"
	testPathTranslationEnvironmentKey = "TESTMTRACKER_COMMON_PATH_TRANSLATION"
	testEmbeddedConfigurationConstant = "common:\n  path_translation: auto\ntools:\n  scan:\n    device_marker: embedded\n"
	testFileConfigurationConstant     = "common:\n  path_translation: always\n"
	testHomeDirectoryNameConstant     = ".mtracker"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Tools  configurationToolsFixture  `mapstructure:"tools"`
}

type configurationCommonFixture struct {
	PathTranslation string `mapstructure:"path_translation"`
	MarkerFileName  string `mapstructure:"marker_file_name"`
}

type configurationToolsFixture struct {
	Scan configurationScanFixture `mapstructure:"scan"`
}

type configurationScanFixture struct {
	DeviceMarker string `mapstructure:"device_marker"`
}

func TestConfigurationLoaderLayering(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		embedded                string
		fileContents            string
		environmentValue        string
		expectedPathTranslation string
		expectedDeviceMarker    string
		expectedMarkerFileName  string
	}{
		{
			name:                    "defaults_only",
			expectedPathTranslation: "never",
			expectedDeviceMarker:    "default",
			expectedMarkerFileName:  ".mtracker.mtr",
		},
		{
			name:                    "embedded_over_defaults",
			embedded:                testEmbeddedConfigurationConstant,
			expectedPathTranslation: "auto",
			expectedDeviceMarker:    "embedded",
			expectedMarkerFileName:  ".mtracker.mtr",
		},
		{
			name:                    "file_over_embedded",
			embedded:                testEmbeddedConfigurationConstant,
			fileContents:            testFileConfigurationConstant,
			expectedPathTranslation: "always",
			expectedDeviceMarker:    "embedded",
			expectedMarkerFileName:  ".mtracker.mtr",
		},
		{
			name:                    "environment_over_file",
			embedded:                testEmbeddedConfigurationConstant,
			fileContents:            testFileConfigurationConstant,
			environmentValue:        "never",
			expectedPathTranslation: "never",
			expectedDeviceMarker:    "embedded",
			expectedMarkerFileName:  ".mtracker.mtr",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			searchDirectory := subTest.TempDir()
			configurationFilePath := ""
			if len(testCase.fileContents) > 0 {
				configurationFilePath = filepath.Join(subTest.TempDir(), testConfigFileNameConstant)
				require.NoError(subTest, os.WriteFile(configurationFilePath, []byte(testCase.fileContents), 0o600))
			}
			if len(testCase.environmentValue) > 0 {
				subTest.Setenv(testPathTranslationEnvironmentKey, testCase.environmentValue)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{searchDirectory})
			configurationLoader.SetEmbeddedConfiguration([]byte(testCase.embedded), testConfigurationTypeConstant)

			defaultValues := map[string]any{
				testPathTranslationKeyConstant: "never",
				testDeviceMarkerKeyConstant:    "default",
				"common.marker_file_name":      ".mtracker.mtr",
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(subTest, loadError)
			require.Equal(subTest, testCase.expectedPathTranslation, loadedConfiguration.Common.PathTranslation)
			require.Equal(subTest, testCase.expectedDeviceMarker, loadedConfiguration.Tools.Scan.DeviceMarker)
			require.Equal(subTest, testCase.expectedMarkerFileName, loadedConfiguration.Common.MarkerFileName)
			require.Equal(subTest, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name            string
		selectDirectory func(workingDirectory string, homeConfigurationDirectory string) string
	}{
		{
			name: "working_directory",
			selectDirectory: func(workingDirectory string, _ string) string {
				return workingDirectory
			},
		},
		{
			name: "home_configuration_directory",
			selectDirectory: func(_ string, homeConfigurationDirectory string) string {
				return homeConfigurationDirectory
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			workingDirectory := subTest.TempDir()
			homeDirectory := subTest.TempDir()
			subTest.Setenv("HOME", homeDirectory)

			homeConfigurationDirectory := filepath.Join(homeDirectory, testHomeDirectoryNameConstant)
			require.NoError(subTest, os.MkdirAll(homeConfigurationDirectory, 0o755))

			configurationFilePath := filepath.Join(testCase.selectDirectory(workingDirectory, homeConfigurationDirectory), testConfigFileNameConstant)
			require.NoError(subTest, os.WriteFile(configurationFilePath, []byte(testFileConfigurationConstant), 0o600))

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{workingDirectory, filepath.Join("$HOME", testHomeDirectoryNameConstant)},
			)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testPathTranslationKeyConstant: "never"}, &loadedConfiguration)
			require.NoError(subTest, loadError)
			require.Equal(subTest, "always", loadedConfiguration.Common.PathTranslation)
			require.Equal(subTest, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderRejectsUnreadableExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}
