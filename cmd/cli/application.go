package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/mtracker/internal/identity"
	"github.com/temirov/mtracker/internal/mark"
	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/pathnorm"
	"github.com/temirov/mtracker/internal/scan"
	"github.com/temirov/mtracker/internal/utils"
	"github.com/temirov/mtracker/internal/utils/flags"
)

const (
	applicationNameConstant                   = "mtracker"
	applicationShortDescriptionConstant       = "Track media and resource folders across devices and mount points"
	applicationLongDescriptionConstant        = "mtracker leaves JSON marker files in resource directories and scans directory trees to record every location a resource has been seen at."
	configFileFlagNameConstant                = "config"
	configFileFlagUsageConstant               = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                  = "log-level"
	logLevelFlagDescriptionConstant           = "Override the configured log level."
	logFormatFlagNameConstant                 = "log-format"
	logFormatFlagDescriptionConstant          = "Override the configured log format."
	pathTranslationFlagNameConstant           = "path-translation"
	pathTranslationFlagDescriptionConstant    = "Translate /mnt/<drive> paths to drive-letter paths."
	commonConfigurationKeyConstant            = "common"
	commonLogLevelConfigKeyConstant           = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant          = commonConfigurationKeyConstant + ".log_format"
	commonPathTranslationConfigKeyConstant    = commonConfigurationKeyConstant + ".path_translation"
	commonMarkerFileNameConfigKeyConstant     = commonConfigurationKeyConstant + ".marker_file_name"
	toolsConfigurationKeyConstant             = "tools"
	markConfigurationKeyConstant              = toolsConfigurationKeyConstant + ".mark"
	scanConfigurationKeyConstant              = toolsConfigurationKeyConstant + ".scan"
	environmentPrefixConstant                 = "MTRACKER"
	configurationNameConstant                 = "config"
	configurationTypeConstant                 = "yaml"
	workingDirectorySearchPathConstant        = "."
	homeDirectorySearchPathConstant           = "$HOME/.mtracker"
	configurationInitializedMessageConstant   = "configuration initialized"
	configurationLogLevelFieldConstant        = "log_level"
	configurationLogFormatFieldConstant       = "log_format"
	configurationPathTranslationFieldConstant = "path_translation"
	configurationFileFieldConstant            = "config_file"
	configurationLoadErrorTemplateConstant    = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant       = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant           = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant         = "unable to build %s command: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	PathTranslation string `mapstructure:"path_translation"`
	MarkerFileName  string `mapstructure:"marker_file_name"`
}

// ApplicationToolsConfiguration holds configuration for the individual tools.
type ApplicationToolsConfiguration struct {
	Mark MarkToolConfiguration `mapstructure:"mark"`
	Scan ScanToolConfiguration `mapstructure:"scan"`
}

// MarkToolConfiguration holds settings specific to the mark command.
type MarkToolConfiguration struct {
	CatalogPath string         `mapstructure:"catalog_path"`
	Catalog     map[string]any `mapstructure:"catalog"`
}

// ScanToolConfiguration holds settings specific to the scan command.
type ScanToolConfiguration struct {
	ScanPath     string `mapstructure:"scan_path"`
	DeviceMarker string `mapstructure:"device_marker"`
}

type applicationDependencies struct {
	platformDetector pathnorm.PlatformDetector
	suffixSource     identity.SuffixSource
	clock            marker.Clock
	searchPaths      []string
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand              *cobra.Command
	configurationLoader      *utils.ConfigurationLoader
	loggerFactory            *utils.LoggerFactory
	logger                   *zap.Logger
	configuration            ApplicationConfiguration
	configurationMetadata    utils.LoadedConfiguration
	configurationFilePath    string
	logLevelFlagValue        string
	logFormatFlagValue       string
	pathTranslationFlagValue string
	buildError               error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return newApplication(applicationDependencies{})
}

func newApplication(dependencies applicationDependencies) *Application {
	searchPaths := dependencies.searchPaths
	if searchPaths == nil {
		searchPaths = []string{workingDirectorySearchPathConstant, homeDirectorySearchPathConstant}
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogLevelWarn), utils.SupportedLogLevels(), logLevelFlagDescriptionConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagDescriptionConstant))
	cobraCommand.PersistentFlags().StringVar(&application.pathTranslationFlagValue, pathTranslationFlagNameConstant, "", flags.FormatChoiceUsage(string(pathnorm.ModeAuto), pathnorm.SupportedModes(), pathTranslationFlagDescriptionConstant))

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	markBuilder := mark.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.markConfiguration,
		PlatformDetector:      dependencies.platformDetector,
		SuffixSource:          dependencies.suffixSource,
		Clock:                 dependencies.clock,
	}
	application.addCommand(cobraCommand, markBuilder.Build)

	scanBuilder := scan.CommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.scanConfiguration,
		PlatformDetector:      dependencies.platformDetector,
		Clock:                 dependencies.clock,
	}
	application.addCommand(cobraCommand, scanBuilder.Build)

	versionBuilder := versionCommandBuilder{}
	application.addCommand(cobraCommand, versionBuilder.Build)

	application.rootCommand = cobraCommand

	return application
}

func (application *Application) addCommand(rootCommand *cobra.Command, build func() (*cobra.Command, error)) {
	command, buildError := build()
	if buildError != nil {
		application.buildError = errors.Join(application.buildError, buildError)
		return
	}
	rootCommand.AddCommand(command)
}

// SetStreams redirects command input and output, for embedding and tests.
func (application *Application) SetStreams(input io.Reader, output io.Writer, errorOutput io.Writer) {
	application.rootCommand.SetIn(input)
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(errorOutput)
}

// Execute runs the command hierarchy with the process arguments.
func (application *Application) Execute(executionContext context.Context) error {
	return application.run(executionContext, nil)
}

// ExecuteWithArguments runs the command hierarchy with explicit arguments.
func (application *Application) ExecuteWithArguments(executionContext context.Context, arguments []string) error {
	if arguments == nil {
		arguments = []string{}
	}
	return application.run(executionContext, arguments)
}

func (application *Application) run(executionContext context.Context, arguments []string) error {
	if application.buildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, applicationNameConstant, application.buildError)
	}
	if arguments != nil {
		application.rootCommand.SetArgs(arguments)
	}
	if executionContext == nil {
		executionContext = context.Background()
	}

	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute(executionContext context.Context) error {
	return NewApplication().Execute(executionContext)
}

// ExecuteTool runs a single tool subcommand, for the standalone tool binaries.
func ExecuteTool(executionContext context.Context, toolName string, arguments []string) error {
	return NewApplication().ExecuteWithArguments(executionContext, append([]string{toolName}, arguments...))
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:        string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant:       string(utils.LogFormatConsole),
		commonPathTranslationConfigKeyConstant: string(pathnorm.ModeAuto),
		commonMarkerFileNameConfigKeyConstant:  marker.DefaultFileNameConstant,
	}
	for configurationKey, configurationValue := range mark.DefaultConfigurationValues(markConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range scan.DefaultConfigurationValues(scanConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, pathTranslationFlagNameConstant) {
		application.configuration.Common.PathTranslation = application.pathTranslationFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationPathTranslationFieldConstant, application.configuration.Common.PathTranslation),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) markConfiguration() mark.CommandConfiguration {
	return mark.CommandConfiguration{
		MarkerFileName:  application.configuration.Common.MarkerFileName,
		PathTranslation: application.configuration.Common.PathTranslation,
		CatalogPath:     strings.TrimSpace(application.configuration.Tools.Mark.CatalogPath),
		Catalog:         application.configuration.Tools.Mark.Catalog,
	}
}

func (application *Application) scanConfiguration() scan.CommandConfiguration {
	return scan.CommandConfiguration{
		MarkerFileName:  application.configuration.Common.MarkerFileName,
		PathTranslation: application.configuration.Common.PathTranslation,
		ScanPath:        application.configuration.Tools.Scan.ScanPath,
		DeviceMarker:    application.configuration.Tools.Scan.DeviceMarker,
	}
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
