package marker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/mtracker/internal/filesystem"
)

const (
	jsonIndentConstant                     = "    "
	temporaryFilePatternConstant           = ".mtracker-*.tmp"
	defaultMarkerPermissionsConstant       = fs.FileMode(0o644)
	encodeErrorTemplateConstant            = "unable to encode marker data: %w"
	temporaryCreateErrorTemplateConstant   = "unable to create temporary marker file: %w"
	temporaryWriteErrorTemplateConstant    = "unable to write temporary marker file: %w"
	temporarySyncErrorTemplateConstant     = "unable to flush temporary marker file: %w"
	temporaryCloseErrorTemplateConstant    = "unable to close temporary marker file: %w"
	permissionsErrorTemplateConstant       = "unable to set marker file permissions: %w"
	replaceErrorTemplateConstant           = "unable to replace marker file %s: %w"
	markerNotRegularFileTemplateConstant   = "marker path %s is not a regular file"
	fileSystemNotConfiguredMessageConstant = "marker store file system not configured"
	markerNotAnObjectMessageConstant       = "marker data must be a JSON object"
)

// LoadStatus classifies the outcome of reading a marker file.
type LoadStatus int

// Load outcomes.
const (
	// LoadStatusMissing indicates no marker file exists at the path.
	LoadStatusMissing LoadStatus = iota
	// LoadStatusLoaded indicates the marker file parsed successfully.
	LoadStatusLoaded
	// LoadStatusCorrupted indicates the marker file could not be read or parsed.
	LoadStatusCorrupted
)

// String returns a log friendly status label.
func (status LoadStatus) String() string {
	switch status {
	case LoadStatusMissing:
		return "missing"
	case LoadStatusLoaded:
		return "loaded"
	case LoadStatusCorrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// LoadResult carries the parsed marker file and its load status.
// File is never nil; it is empty unless Status is LoadStatusLoaded.
type LoadResult struct {
	File   File
	Status LoadStatus
	Cause  error
}

// FileSystem exposes the filesystem operations required by the store.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	CreateTemp(directory string, pattern string) (filesystem.TemporaryFile, error)
	Chmod(path string, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Remove(path string) error
}

// Store reads and writes marker files.
type Store struct {
	fileSystem FileSystem
	fileName   string
}

var (
	errFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	errNotAnObject             = errors.New(markerNotAnObjectMessageConstant)
)

// NewStore constructs a Store. Empty fileName selects DefaultFileNameConstant and
// a nil fileSystem selects the operating system.
func NewStore(fileSystem FileSystem, fileName string) *Store {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if len(fileName) == 0 {
		fileName = DefaultFileNameConstant
	}
	return &Store{fileSystem: fileSystem, fileName: fileName}
}

// FileName returns the marker file name used inside tracked directories.
func (store *Store) FileName() string {
	return store.fileName
}

// MarkerPath returns the marker file location inside directory.
func (store *Store) MarkerPath(directory string) string {
	return filepath.Join(directory, store.fileName)
}

// Exists reports whether a regular marker file is present at markerPath.
func (store *Store) Exists(markerPath string) bool {
	if store == nil || store.fileSystem == nil {
		return false
	}
	fileInfo, statError := store.fileSystem.Stat(markerPath)
	if statError != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}

// Load reads markerPath. Read and parse failures never surface as errors; they
// are reported through the returned status so each caller picks its fallback.
func (store *Store) Load(markerPath string) LoadResult {
	if store == nil || store.fileSystem == nil {
		return LoadResult{File: File{}, Status: LoadStatusCorrupted, Cause: errFileSystemNotConfigured}
	}

	fileInfo, statError := store.fileSystem.Stat(markerPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return LoadResult{File: File{}, Status: LoadStatusMissing}
		}
		return LoadResult{File: File{}, Status: LoadStatusCorrupted, Cause: statError}
	}
	if !fileInfo.Mode().IsRegular() {
		return LoadResult{File: File{}, Status: LoadStatusCorrupted, Cause: fmt.Errorf(markerNotRegularFileTemplateConstant, markerPath)}
	}

	contents, readError := store.fileSystem.ReadFile(markerPath)
	if readError != nil {
		return LoadResult{File: File{}, Status: LoadStatusCorrupted, Cause: readError}
	}

	parsed, parseError := Decode(contents)
	if parseError != nil {
		return LoadResult{File: File{}, Status: LoadStatusCorrupted, Cause: parseError}
	}

	return LoadResult{File: parsed, Status: LoadStatusLoaded}
}

// Save replaces markerPath with the full snapshot of file. The data is written to
// a temporary file in the same directory and renamed over the target.
func (store *Store) Save(markerPath string, file File) error {
	if store == nil || store.fileSystem == nil {
		return errFileSystemNotConfigured
	}

	encoded, encodeError := Encode(file)
	if encodeError != nil {
		return encodeError
	}

	permissions := defaultMarkerPermissionsConstant
	if existingInfo, statError := store.fileSystem.Stat(markerPath); statError == nil && existingInfo.Mode().IsRegular() {
		permissions = existingInfo.Mode().Perm()
	}

	temporaryFile, createError := store.fileSystem.CreateTemp(filepath.Dir(markerPath), temporaryFilePatternConstant)
	if createError != nil {
		return fmt.Errorf(temporaryCreateErrorTemplateConstant, createError)
	}
	temporaryPath := temporaryFile.Name()

	if writeError := store.writeTemporary(temporaryFile, encoded); writeError != nil {
		_ = store.fileSystem.Remove(temporaryPath)
		return writeError
	}

	if chmodError := store.fileSystem.Chmod(temporaryPath, permissions); chmodError != nil {
		_ = store.fileSystem.Remove(temporaryPath)
		return fmt.Errorf(permissionsErrorTemplateConstant, chmodError)
	}

	if renameError := store.fileSystem.Rename(temporaryPath, markerPath); renameError != nil {
		_ = store.fileSystem.Remove(temporaryPath)
		return fmt.Errorf(replaceErrorTemplateConstant, markerPath, renameError)
	}

	return nil
}

func (store *Store) writeTemporary(temporaryFile filesystem.TemporaryFile, encoded []byte) error {
	if _, writeError := temporaryFile.Write(encoded); writeError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(temporaryWriteErrorTemplateConstant, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf(temporarySyncErrorTemplateConstant, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(temporaryCloseErrorTemplateConstant, closeError)
	}
	return nil
}

// Decode parses marker file contents. Only invalid JSON or a top-level value
// that is not an object is an error; unexpected record contents are retained.
func Decode(contents []byte) (File, error) {
	var parsed File
	if decodeError := json.Unmarshal(contents, &parsed); decodeError != nil {
		return nil, decodeError
	}
	if parsed == nil {
		return nil, errNotAnObject
	}
	return parsed, nil
}

// Encode renders file as indented JSON terminated by a newline. HTML characters
// are written literally so paths such as "Tom & Jerry" stay readable.
func Encode(file File) ([]byte, error) {
	if file == nil {
		file = File{}
	}
	return encodeIndented(file)
}

// EncodeRecord renders a single record as indented JSON.
func EncodeRecord(record Record) ([]byte, error) {
	encoded, encodeError := encodeIndented(record)
	if encodeError != nil {
		return nil, encodeError
	}
	return bytes.TrimSuffix(encoded, []byte("\n")), nil
}

func encodeIndented(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return nil, fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}
	return buffer.Bytes(), nil
}
