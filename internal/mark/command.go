package mark

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mtracker/internal/category"
	"github.com/temirov/mtracker/internal/filesystem"
	"github.com/temirov/mtracker/internal/identity"
	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/pathnorm"
	"github.com/temirov/mtracker/internal/prompt"
	pathutils "github.com/temirov/mtracker/internal/utils/path"
	"github.com/temirov/mtracker/internal/version"
)

const (
	commandUseConstant                    = "mark [directory]"
	commandShortDescriptionConstant       = "Leave an M-Tracker marker in a directory"
	commandLongDescriptionConstant        = "mark interactively records a resource in the marker file of the target directory (the working directory by default), keeping the history of every path the resource was marked or scanned at."
	bannerTemplateConstant                = "M-TRACKER MARK SYSTEM: Version v%s\n"
	flagCatalogNameConstant               = "catalog"
	flagCatalogDescriptionConstant        = "Path to a YAML category catalog replacing the built-in codes"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	targetResolveErrorTemplateConstant    = "unable to resolve target directory %s: %w"
	targetNotDirectoryTemplateConstant    = "target %s is not a directory"
	catalogErrorTemplateConstant          = "unable to load category catalog: %w"
	pathTranslationErrorTemplateConstant  = "invalid path translation configuration: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the current mark configuration.
type ConfigurationProvider func() CommandConfiguration

// PrompterFactory creates prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) Prompter

// FileSystem combines the operations the mark command needs from the host.
type FileSystem interface {
	marker.FileSystem
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
}

// CommandBuilder assembles the mark Cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	PrompterFactory       PrompterFactory
	FileSystem            FileSystem
	PlatformDetector      pathnorm.PlatformDetector
	SuffixSource          identity.SuffixSource
	Clock                 marker.Clock
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the mark command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagCatalogNameConstant, "", flagCatalogDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if catalogFlagValue, _ := command.Flags().GetString(flagCatalogNameConstant); command.Flags().Changed(flagCatalogNameConstant) {
		configuration.CatalogPath = strings.TrimSpace(catalogFlagValue)
	}

	fileSystem := builder.resolveFileSystem()
	targetDirectory, targetError := builder.resolveTargetDirectory(fileSystem, arguments)
	if targetError != nil {
		return targetError
	}

	catalog, catalogError := builder.resolveCatalog(configuration)
	if catalogError != nil {
		return fmt.Errorf(catalogErrorTemplateConstant, catalogError)
	}

	translationMode, modeError := pathnorm.ParseMode(configuration.PathTranslation)
	if modeError != nil {
		return fmt.Errorf(pathTranslationErrorTemplateConstant, modeError)
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:     builder.resolveLogger(),
		Store:      marker.NewStore(fileSystem, configuration.MarkerFileName),
		Catalog:    catalog,
		Prompter:   builder.resolvePrompter(command),
		Generator:  identity.NewGenerator(builder.SuffixSource),
		Normalizer: pathnorm.NewNormalizer(translationMode, builder.PlatformDetector),
		Clock:      builder.Clock,
		Output:     command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	fmt.Fprintf(command.OutOrStdout(), bannerTemplateConstant, version.Version)

	_, runError := service.Run(command.Context(), Options{TargetDirectory: targetDirectory})
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveTargetDirectory(fileSystem FileSystem, arguments []string) (string, error) {
	candidate := ""
	if len(arguments) == 1 {
		candidate = strings.TrimSpace(arguments[0])
	}
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
		return "", fmt.Errorf(targetResolveErrorTemplateConstant, candidate, absoluteError)
	}
	resolvedPath, resolveError := fileSystem.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return "", fmt.Errorf(targetResolveErrorTemplateConstant, candidate, resolveError)
	}

	directoryInfo, statError := fileSystem.Stat(resolvedPath)
	if statError != nil {
		return "", fmt.Errorf(targetResolveErrorTemplateConstant, candidate, statError)
	}
	if !directoryInfo.IsDir() {
		return "", fmt.Errorf(targetNotDirectoryTemplateConstant, resolvedPath)
	}

	return resolvedPath, nil
}

func (builder *CommandBuilder) resolveCatalog(configuration CommandConfiguration) (category.Catalog, error) {
	if len(configuration.CatalogPath) > 0 {
		return category.LoadCatalog(configuration.CatalogPath)
	}
	if len(configuration.Catalog) > 0 {
		return category.CatalogFromSettings(configuration.Catalog)
	}
	return category.DefaultCatalog()
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

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) Prompter {
	if builder.PrompterFactory != nil {
		if prompter := builder.PrompterFactory(command); prompter != nil {
			return prompter
		}
	}
	return prompt.NewIOPrompter(command.InOrStdin(), command.OutOrStdout())
}
