package marker

// AppendPathIfMissing returns the record with entry appended unless the history
// already contains entry.Path or the record is opaque. The boolean reports
// whether an entry was added.
func AppendPathIfMissing(record Record, entry PathEntry) (Record, bool) {
	updated := record.clone()
	if updated.Opaque() || updated.HasPath(entry.Path) {
		return updated, false
	}
	updated.PathHistory = append(updated.PathHistory, entry)
	return updated, true
}

// MergeMarked stores replacement under identity. Name, code and description come
// from replacement; the history of any record already stored under identity is
// carried over, and entry is appended only when its path is not yet recorded.
// The input file is not modified.
func MergeMarked(file File, identity string, replacement Record, entry PathEntry) (File, bool) {
	merged := file.Clone()

	carried := replacement.Metadata()
	if previous, exists := file[identity]; exists {
		carried.PathHistory = append([]PathEntry(nil), previous.PathHistory...)
	}

	updated, appended := AppendPathIfMissing(carried, entry)
	merged[identity] = updated
	return merged, appended
}

// ApplyScan appends entry to every record whose history lacks entry.Path and
// returns the identities that changed, in lexical order. Record metadata is
// never altered. The input file is not modified.
func ApplyScan(file File, entry PathEntry) (File, []string) {
	scanned := file.Clone()
	var appendedIdentities []string
	for _, identity := range file.Identities() {
		updated, appended := AppendPathIfMissing(file[identity], entry)
		if !appended {
			continue
		}
		scanned[identity] = updated
		appendedIdentities = append(appendedIdentities, identity)
	}
	return scanned, appendedIdentities
}
