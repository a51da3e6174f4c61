package scan

import (
	"strings"

	"github.com/temirov/mtracker/internal/marker"
	"github.com/temirov/mtracker/internal/pathnorm"
)

const (
	scanPathConfigurationKeyConstant     = "scan_path"
	deviceMarkerConfigurationKeyConstant = "device_marker"
)

// CommandConfiguration captures the settings consumed by the scan command.
type CommandConfiguration struct {
	MarkerFileName  string `mapstructure:"marker_file_name"`
	PathTranslation string `mapstructure:"path_translation"`
	ScanPath        string `mapstructure:"scan_path"`
	DeviceMarker    string `mapstructure:"device_marker"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scan command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MarkerFileName:  marker.DefaultFileNameConstant,
		PathTranslation: string(pathnorm.ModeAuto),
	}
}

// DefaultConfigurationValues exposes the scan tool defaults keyed below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + "." + scanPathConfigurationKeyConstant:     "",
		prefix + "." + deviceMarkerConfigurationKeyConstant: "",
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.MarkerFileName = strings.TrimSpace(configuration.MarkerFileName)
	if len(sanitized.MarkerFileName) == 0 {
		sanitized.MarkerFileName = marker.DefaultFileNameConstant
	}
	sanitized.PathTranslation = strings.TrimSpace(configuration.PathTranslation)
	sanitized.ScanPath = strings.TrimSpace(configuration.ScanPath)

	return sanitized
}
