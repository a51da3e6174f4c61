package scan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mtracker/internal/filesystem"
	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/pathnorm"
	"github.com/temirov/mtracker/internal/utils/flags"
	pathutils "github.com/temirov/mtracker/internal/utils/path"
	"github.com/temirov/mtracker/internal/version"
)

const (
	commandUseConstant                    = "scan"
	commandShortDescriptionConstant       = "Record the scanned location in every marker under a directory tree"
	commandLongDescriptionConstant        = "scan walks the scan path, lists the resources of every marker file it finds and appends the marker's location to each resource's path history."
	bannerTemplateConstant                = "M-TRACKER SCAN SYSTEM: Version v%s\n"
	scanPathTemplateConstant              = "Scan path: %s\n\n"
	flagScanPathNameConstant              = "scan_path"
	flagScanPathUsageConstant             = "Path to scan (defaults to the working directory)"
	flagDeviceMarkerNameConstant          = "device_marker"
	flagDeviceMarkerUsageConstant         = "Device marker printed next to each discovered resource"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	scanRootErrorTemplateConstant         = "unable to resolve scan path %s: %w"
	scanRootNotDirectoryTemplateConstant  = "scan path %s is not a directory"
	pathTranslationErrorTemplateConstant  = "invalid path translation configuration: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the current scan configuration.
type ConfigurationProvider func() CommandConfiguration

// FileSystem combines the operations the scan command needs from the host.
type FileSystem interface {
	marker.FileSystem
	Abs(path string) (string, error)
}

// CommandBuilder assembles the scan Cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            FileSystem
	PlatformDetector      pathnorm.PlatformDetector
	Clock                 marker.Clock
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the scan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(flagScanPathNameConstant, "", flagScanPathUsageConstant)
	command.Flags().String(flagDeviceMarkerNameConstant, "", flagDeviceMarkerUsageConstant)
	command.Flags().Bool(flags.DryRunFlagName, false, flags.DryRunFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(flagScanPathNameConstant) {
		configuration.ScanPath, _ = command.Flags().GetString(flagScanPathNameConstant)
	}
	if command.Flags().Changed(flagDeviceMarkerNameConstant) {
		configuration.DeviceMarker, _ = command.Flags().GetString(flagDeviceMarkerNameConstant)
	}
	dryRun, _ := command.Flags().GetBool(flags.DryRunFlagName)

	fileSystem := builder.resolveFileSystem()
	scanRoot, rootError := builder.resolveScanRoot(fileSystem, configuration.ScanPath)
	if rootError != nil {
		return rootError
	}

	translationMode, modeError := pathnorm.ParseMode(configuration.PathTranslation)
	if modeError != nil {
		return fmt.Errorf(pathTranslationErrorTemplateConstant, modeError)
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:     builder.resolveLogger(),
		Store:      marker.NewStore(fileSystem, configuration.MarkerFileName),
		Normalizer: pathnorm.NewNormalizer(translationMode, builder.PlatformDetector),
		Clock:      builder.Clock,
		Output:     command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	fmt.Fprintf(command.OutOrStdout(), bannerTemplateConstant, version.Version)
	fmt.Fprintf(command.OutOrStdout(), scanPathTemplateConstant, scanRoot)

	_, runError := service.Run(command.Context(), Options{
		Root:         scanRoot,
		DeviceMarker: configuration.DeviceMarker,
		DryRun:       dryRun,
	})
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveScanRoot(fileSystem FileSystem, configuredPath string) (string, error) {
	candidate := configuredPath
	if len(candidate) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		candidate = workingDirectory
	}

	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	candidate = expander.Expand(candidate)

	absolutePath, absoluteError := fileSystem.Abs(candidate)
	if absoluteError != nil {
		return "", fmt.Errorf(scanRootErrorTemplateConstant, candidate, absoluteError)
	}

	rootInfo, statError := fileSystem.Stat(absolutePath)
	if statError != nil {
		return "", fmt.Errorf(scanRootErrorTemplateConstant, candidate, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(scanRootNotDirectoryTemplateConstant, absolutePath)
	}

	return absolutePath, nil
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem == nil {
		return filesystem.OSFileSystem{}
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
