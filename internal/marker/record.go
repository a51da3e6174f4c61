package marker

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultFileNameConstant is the marker file name stored inside tracked directories.
	DefaultFileNameConstant = ".mtracker.mtr"
	// TimestampLayoutConstant formats path history timestamps.
	TimestampLayoutConstant = "2006-01-02 15:04:05"

	pathEntrySeparatorConstant = ","
	jsonNullConstant           = "null"

	recordNameKeyConstant        = "resource_name"
	recordCodeKeyConstant        = "resource_code"
	recordDescriptionKeyConstant = "resource_description"
	recordPathHistoryKeyConstant = "path_history"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// PathEntry records one location at which a resource was observed.
// It is encoded on disk as "<timestamp>,<path>".
type PathEntry struct {
	Timestamp string
	Path      string

	undecodable string
	raw         json.RawMessage
}

// NewPathEntry builds an entry stamped with the provided time.
func NewPathEntry(recordedAt time.Time, path string) PathEntry {
	return PathEntry{Timestamp: recordedAt.Format(TimestampLayoutConstant), Path: path}
}

// ParsePathEntry decodes the legacy delimited form. The timestamp layout never
// contains a comma, so the first comma always separates timestamp from path.
// Text without a separator is kept verbatim and matches no path.
func ParsePathEntry(encoded string) PathEntry {
	timestamp, path, separatorFound := strings.Cut(encoded, pathEntrySeparatorConstant)
	if !separatorFound {
		return PathEntry{undecodable: encoded}
	}
	return PathEntry{Timestamp: timestamp, Path: path}
}

// String returns the on-disk representation of the entry.
func (entry PathEntry) String() string {
	if entry.raw != nil {
		return string(entry.raw)
	}
	if len(entry.undecodable) > 0 {
		return entry.undecodable
	}
	return entry.Timestamp + pathEntrySeparatorConstant + entry.Path
}

// Decodable reports whether the entry carried a timestamp/path pair.
func (entry PathEntry) Decodable() bool {
	return len(entry.undecodable) == 0 && entry.raw == nil
}

// RecordedAt parses the entry timestamp in the local time zone.
func (entry PathEntry) RecordedAt() (time.Time, error) {
	return time.ParseInLocation(TimestampLayoutConstant, entry.Timestamp, time.Local)
}

// MarshalJSON encodes the entry as a single delimited string. Entries that
// were not strings on disk are written back as they were read.
func (entry PathEntry) MarshalJSON() ([]byte, error) {
	if entry.raw != nil {
		return entry.raw, nil
	}
	return marshalUnescaped(entry.String())
}

// UnmarshalJSON decodes a delimited string entry. Any other JSON value is
// retained verbatim and matches no path.
func (entry *PathEntry) UnmarshalJSON(data []byte) error {
	var encoded string
	if decodeError := json.Unmarshal(data, &encoded); decodeError != nil {
		*entry = PathEntry{raw: append(json.RawMessage(nil), data...)}
		return nil
	}
	*entry = ParsePathEntry(encoded)
	return nil
}

// Record stores the metadata and path history for one tracked resource.
//
// Decoding is tolerant of hand-edited markers: metadata values that are not JSON
// strings are exposed as their JSON text, keys outside the record schema are
// retained, and a record that is not a JSON object is kept as is. Whatever was
// retained is written back unchanged as long as the corresponding field is not
// modified.
type Record struct {
	Name        string
	Code        string
	Description string
	PathHistory []PathEntry

	original map[string]json.RawMessage
	extra    map[string]json.RawMessage
	opaque   json.RawMessage
}

// Opaque reports whether the record was stored as something other than a JSON
// object. Opaque records are preserved but never receive path entries.
func (record Record) Opaque() bool {
	return record.opaque != nil
}

// UnmarshalJSON decodes one record without rejecting unexpected value types.
func (record *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if decodeError := json.Unmarshal(data, &fields); decodeError != nil || fields == nil {
		*record = Record{opaque: append(json.RawMessage(nil), data...)}
		return nil
	}

	decoded := Record{}
	for key, value := range fields {
		switch key {
		case recordNameKeyConstant:
			decoded.Name = decoded.retainText(key, value)
		case recordCodeKeyConstant:
			decoded.Code = decoded.retainText(key, value)
		case recordDescriptionKeyConstant:
			decoded.Description = decoded.retainText(key, value)
		case recordPathHistoryKeyConstant:
			decoded.PathHistory = decoded.retainHistory(value)
		default:
			if decoded.extra == nil {
				decoded.extra = make(map[string]json.RawMessage)
			}
			decoded.extra[key] = value
		}
	}
	*record = decoded
	return nil
}

// MarshalJSON writes the schema fields first, followed by retained keys in
// lexical order.
func (record Record) MarshalJSON() ([]byte, error) {
	if record.opaque != nil {
		return record.opaque, nil
	}

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	written := 0
	writeField := func(key string, value []byte) error {
		encodedKey, keyError := marshalUnescaped(key)
		if keyError != nil {
			return keyError
		}
		if written > 0 {
			buffer.WriteByte(',')
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		buffer.Write(value)
		written++
		return nil
	}

	metadataFields := []struct {
		key  string
		text string
	}{
		{key: recordNameKeyConstant, text: record.Name},
		{key: recordCodeKeyConstant, text: record.Code},
		{key: recordDescriptionKeyConstant, text: record.Description},
	}
	for _, metadataField := range metadataFields {
		value, valueError := record.textValue(metadataField.key, metadataField.text)
		if valueError != nil {
			return nil, valueError
		}
		if fieldError := writeField(metadataField.key, value); fieldError != nil {
			return nil, fieldError
		}
	}

	historyValue, historyError := record.historyValue()
	if historyError != nil {
		return nil, historyError
	}
	if historyValue != nil {
		if fieldError := writeField(recordPathHistoryKeyConstant, historyValue); fieldError != nil {
			return nil, fieldError
		}
	}

	extraKeys := make([]string, 0, len(record.extra))
	for key := range record.extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		if fieldError := writeField(key, record.extra[key]); fieldError != nil {
			return nil, fieldError
		}
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (record *Record) retainText(key string, value json.RawMessage) string {
	var text string
	if json.Unmarshal(value, &text) == nil {
		return text
	}
	if record.original == nil {
		record.original = make(map[string]json.RawMessage)
	}
	record.original[key] = value
	return scalarText(value)
}

func (record *Record) retainHistory(value json.RawMessage) []PathEntry {
	var entries []PathEntry
	if json.Unmarshal(value, &entries) == nil {
		return entries
	}
	if record.original == nil {
		record.original = make(map[string]json.RawMessage)
	}
	record.original[recordPathHistoryKeyConstant] = value
	return nil
}

func (record Record) textValue(key string, text string) ([]byte, error) {
	if originalValue, retained := record.original[key]; retained && scalarText(originalValue) == text {
		return originalValue, nil
	}
	return marshalUnescaped(text)
}

func (record Record) historyValue() ([]byte, error) {
	if len(record.PathHistory) > 0 {
		return marshalUnescaped(record.PathHistory)
	}
	if originalValue, retained := record.original[recordPathHistoryKeyConstant]; retained {
		return originalValue, nil
	}
	return nil, nil
}

// scalarText renders a non-string JSON value as its text; null reads as empty.
func scalarText(value json.RawMessage) string {
	trimmed := strings.TrimSpace(string(value))
	if trimmed == jsonNullConstant {
		return ""
	}
	return trimmed
}

func marshalUnescaped(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return nil, encodeError
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// HasPath reports whether the history already lists path.
func (record Record) HasPath(path string) bool {
	for _, entry := range record.PathHistory {
		if entry.Decodable() && entry.Path == path {
			return true
		}
	}
	return false
}

// Metadata returns a copy of the record without its path history.
func (record Record) Metadata() Record {
	return Record{Name: record.Name, Code: record.Code, Description: record.Description}
}

func (record Record) clone() Record {
	duplicated := record
	if record.PathHistory != nil {
		duplicated.PathHistory = append([]PathEntry(nil), record.PathHistory...)
	}
	return duplicated
}

// File maps resource identities to their records.
type File map[string]Record

// Identities returns the resource identities in lexical order.
func (file File) Identities() []string {
	identities := make([]string, 0, len(file))
	for identity := range file {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}

// Clone returns a deep copy of the file.
func (file File) Clone() File {
	duplicated := make(File, len(file))
	for identity, record := range file {
		duplicated[identity] = record.clone()
	}
	return duplicated
}
