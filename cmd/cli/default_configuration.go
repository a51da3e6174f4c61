package cli

import _ "embed"

// mtrackerDefaultConfigurationContent holds the built-in mtracker settings: warn
// level console logging, automatic /mnt path translation, the .mtracker.mtr
// marker name and empty mark and scan tool overrides.
//
//go:embed default_config.yaml
var mtrackerDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a private copy of the built-in mtracker
// YAML settings together with the viper configuration type used to parse them.
// The configuration loader merges it beneath any user configuration file.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), mtrackerDefaultConfigurationContent...), configurationTypeConstant
}
