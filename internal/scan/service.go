package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mtracker/internal/marker"
)

const (
	markerHeaderTemplateConstant          = "M-TRACKER MARKER: %s\n"
	markerCorruptedTemplateConstant       = "Marker file %s is corrupted\n"
	recordLineTemplateConstant            = "  %-10s %-40s %-40s %-40s\n"
	bracketedTemplateConstant             = "[%s]"
	writeFailedTemplateConstant           = "Marker file %s could not be written: %v\n"
	dryRunTemplateConstant                = "Dry run: %d path %s not written to %s\n"
	summaryTemplateConstant               = "Scan complete: %d marker(s), %d corrupted, %d path %s appended\n"
	missingNamePlaceholderConstant        = "RESOURCE_NAME_MISSING"
	missingDescriptionPlaceholderConstant = "RESOURCE_DESCRIPTION_MISSING"
	entrySingularConstant                 = "entry"
	entryPluralConstant                   = "entries"
	rootRequiredMessageConstant           = "scan root must be provided"
	storeMissingMessageConstant           = "marker store not configured"
	normalizerMissingMessageConstant      = "path normalizer not configured"
	logMessageMarkerCorruptedConstant     = "marker file corrupted, skipping"
	logMessageMarkerUpdatedConstant       = "marker path history updated"
	logMessageMarkerUnchangedConstant     = "marker already records scanned path"
	logMessageMarkerWriteFailedConstant   = "marker file could not be written"
	logMessageScanCompletedConstant       = "scan completed"
	logFieldMarkerPathConstant            = "marker_path"
	logFieldRecordedPathConstant          = "recorded_path"
	logFieldAppendedEntriesConstant       = "appended_entries"
	logFieldAppendedIdentitiesConstant    = "appended_identities"
	logFieldDryRunConstant                = "dry_run"
	logFieldMarkerCountConstant           = "markers"
	logFieldCorruptedCountConstant        = "corrupted"
	logFieldWriteFailureCountConstant     = "write_failures"
)

var (
	errRootRequired      = errors.New(rootRequiredMessageConstant)
	errStoreMissing      = errors.New(storeMissingMessageConstant)
	errNormalizerMissing = errors.New(normalizerMissingMessageConstant)
)

// PathNormalizer converts discovered directories into their recorded form.
type PathNormalizer interface {
	Normalize(path string) string
}

// ServiceDependencies describes the collaborators of the scan workflow.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Store      *marker.Store
	Normalizer PathNormalizer
	Clock      marker.Clock
	Output     io.Writer
}

// Options configures one scan.
type Options struct {
	Root         string
	DeviceMarker string
	DryRun       bool
}

// Summary totals the outcome of a scan.
type Summary struct {
	Markers         int
	Corrupted       int
	AppendedEntries int
	WriteFailures   int
}

// Service runs the non-interactive marker scan.
type Service struct {
	logger     *zap.Logger
	store      *marker.Store
	discoverer *MarkerDiscoverer
	normalizer PathNormalizer
	clock      marker.Clock
	output     io.Writer
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errStoreMissing
	}
	if dependencies.Normalizer == nil {
		return nil, errNormalizerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = marker.SystemClock{}
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Service{
		logger:     logger,
		store:      dependencies.Store,
		discoverer: NewMarkerDiscoverer(dependencies.Store, logger),
		normalizer: dependencies.Normalizer,
		clock:      clock,
		output:     output,
	}, nil
}

// Run walks options.Root and processes every marker file found. Corrupted markers
// and failed writes are reported and the walk continues.
func (service *Service) Run(executionContext context.Context, options Options) (Summary, error) {
	root := strings.TrimSpace(options.Root)
	if len(root) == 0 {
		return Summary{}, errRootRequired
	}

	directories, discoveryError := service.discoverer.DiscoverMarkerDirectories(executionContext, root)
	if discoveryError != nil {
		return Summary{}, discoveryError
	}

	summary := Summary{}
	for _, directory := range directories {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}
		service.processMarker(directory, options, &summary)
	}

	fmt.Fprintf(service.output, summaryTemplateConstant, summary.Markers, summary.Corrupted, summary.AppendedEntries, pluralizeEntries(summary.AppendedEntries))

	service.logger.Info(
		logMessageScanCompletedConstant,
		zap.Int(logFieldMarkerCountConstant, summary.Markers),
		zap.Int(logFieldCorruptedCountConstant, summary.Corrupted),
		zap.Int(logFieldAppendedEntriesConstant, summary.AppendedEntries),
		zap.Int(logFieldWriteFailureCountConstant, summary.WriteFailures),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	return summary, nil
}

func (service *Service) processMarker(directory string, options Options, summary *Summary) {
	markerPath := service.store.MarkerPath(directory)
	recordedPath := service.normalizer.Normalize(directory)
	summary.Markers++

	fmt.Fprintf(service.output, markerHeaderTemplateConstant, recordedPath)

	loadResult := service.store.Load(markerPath)
	if loadResult.Status != marker.LoadStatusLoaded || len(loadResult.File) == 0 {
		summary.Corrupted++
		service.logger.Warn(logMessageMarkerCorruptedConstant, zap.String(logFieldMarkerPathConstant, markerPath), zap.Error(loadResult.Cause))
		fmt.Fprintf(service.output, markerCorruptedTemplateConstant, recordedPath)
		return
	}

	for _, resourceIdentity := range loadResult.File.Identities() {
		service.printRecord(options.DeviceMarker, resourceIdentity, loadResult.File[resourceIdentity])
	}

	updatedMarker, appendedIdentities := marker.ApplyScan(loadResult.File, marker.NewPathEntry(service.clock.Now(), recordedPath))
	appendedCount := len(appendedIdentities)

	switch {
	case appendedCount == 0:
		service.logger.Debug(logMessageMarkerUnchangedConstant, zap.String(logFieldMarkerPathConstant, markerPath))
	case options.DryRun:
		summary.AppendedEntries += appendedCount
		fmt.Fprintf(service.output, dryRunTemplateConstant, appendedCount, pluralizeEntries(appendedCount), markerPath)
	default:
		if saveError := service.store.Save(markerPath, updatedMarker); saveError != nil {
			summary.WriteFailures++
			service.logger.Error(logMessageMarkerWriteFailedConstant, zap.String(logFieldMarkerPathConstant, markerPath), zap.Error(saveError))
			fmt.Fprintf(service.output, writeFailedTemplateConstant, markerPath, saveError)
			break
		}
		summary.AppendedEntries += appendedCount
		service.logger.Info(
			logMessageMarkerUpdatedConstant,
			zap.String(logFieldMarkerPathConstant, markerPath),
			zap.String(logFieldRecordedPathConstant, recordedPath),
			zap.Strings(logFieldAppendedIdentitiesConstant, appendedIdentities),
		)
	}

	fmt.Fprintln(service.output)
}

func (service *Service) printRecord(deviceMarker string, resourceIdentity string, record marker.Record) {
	resourceName := record.Name
	if len(resourceName) == 0 {
		resourceName = missingNamePlaceholderConstant
	}
	resourceDescription := record.Description
	if len(resourceDescription) == 0 {
		resourceDescription = missingDescriptionPlaceholderConstant
	}

	fmt.Fprintf(
		service.output,
		recordLineTemplateConstant,
		fmt.Sprintf(bracketedTemplateConstant, deviceMarker),
		fmt.Sprintf(bracketedTemplateConstant, resourceIdentity),
		resourceName,
		resourceDescription,
	)
}

func pluralizeEntries(count int) string {
	if count == 1 {
		return entrySingularConstant
	}
	return entryPluralConstant
}
