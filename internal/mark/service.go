package mark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mtracker/internal/category"
	"github.com/temirov/mtracker/internal/identity"
	"github.com/temirov/mtracker/internal/marker"
)

const (
	resourceNamePromptTemplateConstant     = "Enter the name of the tracked resource [%s]: "
	collisionDetectedTemplateConstant      = "Collision detected, resource %s already tracked\n"
	collisionConfirmPromptConstant         = "Confirm overwrite (y/N)"
	markerCreatedTemplateConstant          = "\nMarker created: %s\n%s\n"
	recordDisplayTemplateConstant          = "%s\n"
	targetDirectoryRequiredMessageConstant = "target directory must be provided"
	storeMissingMessageConstant            = "marker store not configured"
	prompterMissingMessageConstant         = "prompter not configured"
	normalizerMissingMessageConstant       = "path normalizer not configured"
	logMessageCorruptedMarkerConstant      = "existing marker file unreadable, starting from an empty marker"
	logMessageCollisionConstant            = "resource identity already tracked"
	logMessageMarkerWrittenConstant        = "marker written"
	logFieldMarkerPathConstant             = "marker_path"
	logFieldResourceIdentityConstant       = "resource_identity"
	logFieldRecordedPathConstant           = "recorded_path"
	logFieldCollisionConstant              = "collision"
	logFieldPathAppendedConstant           = "path_appended"
)

// Prompter collects answers from the user.
type Prompter interface {
	ReadLine(executionContext context.Context, prompt string) (string, error)
	Confirm(executionContext context.Context, prompt string) (bool, error)
}

// PathNormalizer converts the target directory into its recorded form.
type PathNormalizer interface {
	Normalize(path string) string
}

// RecordEncoder renders a record for display; marker.EncodeRecord is the default.
type RecordEncoder func(record marker.Record) ([]byte, error)

// ServiceDependencies describes the collaborators of the mark workflow.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Store      *marker.Store
	Catalog    category.Catalog
	Prompter   Prompter
	Generator  *identity.Generator
	Normalizer PathNormalizer
	Clock      marker.Clock
	Encoder    RecordEncoder
	Output     io.Writer
}

// Options configures one mark operation.
type Options struct {
	// TargetDirectory is the absolute, symlink-resolved directory being marked.
	TargetDirectory string
}

// Result describes a completed mark operation.
type Result struct {
	Identity     string
	Record       marker.Record
	MarkerPath   string
	RecordedPath string
	Collision    bool
	PathAppended bool
}

// Service runs the interactive mark workflow.
type Service struct {
	logger     *zap.Logger
	store      *marker.Store
	selector   *category.Selector
	prompter   Prompter
	generator  *identity.Generator
	normalizer PathNormalizer
	clock      marker.Clock
	encoder    RecordEncoder
	output     io.Writer
}

var (
	errTargetDirectoryRequired = errors.New(targetDirectoryRequiredMessageConstant)
	errStoreMissing            = errors.New(storeMissingMessageConstant)
	errPrompterMissing         = errors.New(prompterMissingMessageConstant)
	errNormalizerMissing       = errors.New(normalizerMissingMessageConstant)
)

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errStoreMissing
	}
	if dependencies.Prompter == nil {
		return nil, errPrompterMissing
	}
	if dependencies.Normalizer == nil {
		return nil, errNormalizerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generator := dependencies.Generator
	if generator == nil {
		generator = identity.NewGenerator(nil)
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = marker.SystemClock{}
	}
	encoder := dependencies.Encoder
	if encoder == nil {
		encoder = marker.EncodeRecord
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Service{
		logger:     logger,
		store:      dependencies.Store,
		selector:   category.NewSelector(dependencies.Catalog, dependencies.Prompter, output),
		prompter:   dependencies.Prompter,
		generator:  generator,
		normalizer: dependencies.Normalizer,
		clock:      clock,
		encoder:    encoder,
		output:     output,
	}, nil
}

// Run prompts for the marker details and writes the marker file. Nothing is
// written unless every prompt completes and any collision is confirmed.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	targetDirectory := strings.TrimSpace(options.TargetDirectory)
	if len(targetDirectory) == 0 {
		return Result{}, errTargetDirectoryRequired
	}

	markerPath := service.store.MarkerPath(targetDirectory)
	loadResult := service.store.Load(markerPath)
	if loadResult.Status == marker.LoadStatusCorrupted {
		service.logger.Warn(logMessageCorruptedMarkerConstant, zap.String(logFieldMarkerPathConstant, markerPath), zap.Error(loadResult.Cause))
	}
	existingMarker := loadResult.File

	selection, selectionError := service.selector.Select(executionContext)
	if selectionError != nil {
		return Result{}, classifyPromptError(selectionError)
	}

	resourceName, nameError := service.promptResourceName(executionContext, targetDirectory)
	if nameError != nil {
		return Result{}, classifyPromptError(nameError)
	}

	proposedIdentity := service.generator.Propose(resourceName, selection.Code)
	resourceIdentity, identityError := identity.Confirm(executionContext, service.prompter, proposedIdentity)
	if identityError != nil {
		return Result{}, classifyPromptError(identityError)
	}

	recordedPath := service.normalizer.Normalize(targetDirectory)
	replacement := marker.Record{
		Name:        resourceName,
		Code:        selection.Code,
		Description: selection.Description,
	}

	encodedReplacement, encodeError := service.encoder(replacement)
	if encodeError != nil {
		return Result{}, newOperationError(FailureEncoding, encodeError)
	}

	existingRecord, collision := existingMarker[resourceIdentity]
	if collision {
		if confirmError := service.confirmOverwrite(executionContext, resourceIdentity, existingRecord); confirmError != nil {
			return Result{}, confirmError
		}
	}

	mergedMarker, pathAppended := marker.MergeMarked(existingMarker, resourceIdentity, replacement, marker.NewPathEntry(service.clock.Now(), recordedPath))

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, newOperationError(FailureInterrupted, contextError)
	}

	if saveError := service.store.Save(markerPath, mergedMarker); saveError != nil {
		return Result{}, newOperationError(FailureWrite, saveError)
	}

	service.logger.Info(
		logMessageMarkerWrittenConstant,
		zap.String(logFieldMarkerPathConstant, markerPath),
		zap.String(logFieldResourceIdentityConstant, resourceIdentity),
		zap.String(logFieldRecordedPathConstant, recordedPath),
		zap.Bool(logFieldCollisionConstant, collision),
		zap.Bool(logFieldPathAppendedConstant, pathAppended),
	)

	fmt.Fprintf(service.output, markerCreatedTemplateConstant, resourceIdentity, encodedReplacement)

	return Result{
		Identity:     resourceIdentity,
		Record:       mergedMarker[resourceIdentity],
		MarkerPath:   markerPath,
		RecordedPath: recordedPath,
		Collision:    collision,
		PathAppended: pathAppended,
	}, nil
}

func (service *Service) promptResourceName(executionContext context.Context, targetDirectory string) (string, error) {
	suggestedName := filepath.Base(targetDirectory)
	if suggestedName == string(filepath.Separator) || suggestedName == "." {
		suggestedName = ""
	}

	enteredName, readError := service.prompter.ReadLine(executionContext, fmt.Sprintf(resourceNamePromptTemplateConstant, suggestedName))
	if readError != nil {
		return "", readError
	}
	if len(strings.TrimSpace(enteredName)) == 0 {
		return suggestedName, nil
	}
	return enteredName, nil
}

func (service *Service) confirmOverwrite(executionContext context.Context, resourceIdentity string, existingRecord marker.Record) error {
	service.logger.Info(logMessageCollisionConstant, zap.String(logFieldResourceIdentityConstant, resourceIdentity))

	fmt.Fprintf(service.output, collisionDetectedTemplateConstant, resourceIdentity)
	encodedExisting, encodeError := service.encoder(existingRecord)
	if encodeError != nil {
		return newOperationError(FailureEncoding, encodeError)
	}
	fmt.Fprintf(service.output, recordDisplayTemplateConstant, encodedExisting)

	confirmed, confirmError := service.prompter.Confirm(executionContext, collisionConfirmPromptConstant)
	if confirmError != nil {
		return classifyPromptError(confirmError)
	}
	if !confirmed {
		return newOperationError(FailureCollisionDeclined, nil)
	}
	return nil
}
