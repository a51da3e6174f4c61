package mark

import (
	"strings"

	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/pathnorm"
)

const (
	catalogPathConfigurationKeyConstant = "catalog_path"
)

// CommandConfiguration captures the settings consumed by the mark command.
type CommandConfiguration struct {
	MarkerFileName  string         `mapstructure:"marker_file_name"`
	PathTranslation string         `mapstructure:"path_translation"`
	CatalogPath     string         `mapstructure:"catalog_path"`
	Catalog         map[string]any `mapstructure:"catalog"`
}

// DefaultCommandConfiguration returns baseline configuration values for the mark command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MarkerFileName:  marker.DefaultFileNameConstant,
		PathTranslation: string(pathnorm.ModeAuto),
	}
}

// DefaultConfigurationValues exposes the mark tool defaults keyed below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + "." + catalogPathConfigurationKeyConstant: "",
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.MarkerFileName = strings.TrimSpace(configuration.MarkerFileName)
	if len(sanitized.MarkerFileName) == 0 {
		sanitized.MarkerFileName = marker.DefaultFileNameConstant
	}
	sanitized.PathTranslation = strings.TrimSpace(configuration.PathTranslation)
	sanitized.CatalogPath = strings.TrimSpace(configuration.CatalogPath)

	return sanitized
}
