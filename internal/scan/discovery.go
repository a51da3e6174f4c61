package scan

import (
	"context"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	logMessageDirectorySkippedConstant = "directory unreadable, skipping"
	logFieldDirectoryConstant          = "directory"
)

// MarkerLocator reports where a directory's marker file lives and whether it exists.
type MarkerLocator interface {
	MarkerPath(directory string) string
	Exists(markerPath string) bool
}

// MarkerDiscoverer locates marker files on disk.
type MarkerDiscoverer struct {
	locator MarkerLocator
	logger  *zap.Logger
}

// NewMarkerDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewMarkerDiscoverer(locator MarkerLocator, logger *zap.Logger) *MarkerDiscoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkerDiscoverer{locator: locator, logger: logger}
}

// DiscoverMarkerDirectories walks root in lexical order and returns every directory
// holding a regular marker file. Symlinked directories are not followed and
// unreadable subdirectories are skipped. Only a failure to read root is an error.
func (discoverer *MarkerDiscoverer) DiscoverMarkerDirectories(executionContext context.Context, root string) ([]string, error) {
	var directories []string

	walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		if walkError != nil {
			if path == root {
				return walkError
			}
			discoverer.logger.Debug(logMessageDirectorySkippedConstant, zap.String(logFieldDirectoryConstant, path), zap.Error(walkError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !directoryEntry.IsDir() {
			return nil
		}

		if discoverer.locator.Exists(discoverer.locator.MarkerPath(path)) {
			directories = append(directories, path)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return directories, nil
}
