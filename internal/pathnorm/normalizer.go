package pathnorm

import (
	"fmt"
	"os"
	"strings"
)

const (
	kernelVersionFilePathConstant        = "/proc/version"
	wslKernelMarkerConstant              = "wsl"
	unsupportedModeErrorTemplateConstant = "unsupported path translation mode: %s"
)

// Mode controls when mount path translation is applied.
type Mode string

// Supported translation modes.
const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// SupportedModes lists the accepted mode values in display order.
func SupportedModes() []string {
	return []string{string(ModeAuto), string(ModeAlways), string(ModeNever)}
}

// ParseMode validates a configured translation mode. Empty input selects ModeAuto.
func ParseMode(raw string) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeAlways, ModeNever:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedModeErrorTemplateConstant, raw)
	}
}

// PlatformDetector reports whether the process runs under WSL.
type PlatformDetector interface {
	IsWSL() bool
}

// KernelVersionDetector inspects the kernel version banner to detect WSL.
type KernelVersionDetector struct {
	ReadFile func(path string) ([]byte, error)
}

// IsWSL reports true when /proc/version mentions WSL.
func (detector KernelVersionDetector) IsWSL() bool {
	readFile := detector.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	contents, readError := readFile(kernelVersionFilePathConstant)
	if readError != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(contents)), wslKernelMarkerConstant)
}

// Normalizer converts paths into the form stored in path histories.
type Normalizer struct {
	mode            Mode
	detector        PlatformDetector
	platformChecked bool
	platformIsWSL   bool
}

// NewNormalizer constructs a Normalizer. A nil detector falls back to KernelVersionDetector.
func NewNormalizer(mode Mode, detector PlatformDetector) *Normalizer {
	if detector == nil {
		detector = KernelVersionDetector{}
	}
	return &Normalizer{mode: mode, detector: detector}
}

// Normalize applies mount path translation when the mode calls for it.
func (normalizer *Normalizer) Normalize(candidatePath string) string {
	if normalizer == nil || !normalizer.translationEnabled() {
		return candidatePath
	}
	return TranslateMountPath(candidatePath)
}

func (normalizer *Normalizer) translationEnabled() bool {
	switch normalizer.mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		if !normalizer.platformChecked {
			normalizer.platformIsWSL = normalizer.detector.IsWSL()
			normalizer.platformChecked = true
		}
		return normalizer.platformIsWSL
	}
}
