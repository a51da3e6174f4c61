package marker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mtracker/internal/marker"
)

const (
	testIdentityConstant         = "Inception-1-1a2b3c4d"
	testOtherIdentityConstant    = "Dune-5-9f8e7d6c"
	testMoviePathConstant        = "/data/movies/Inception"
	testRelocatedPathConstant    = "/backup/movies/Inception"
	testMovieNameConstant        = "Inception"
	testMovieCodeConstant        = "1"
	testMovieDescriptionConstant = "Video, Movies, TV Series"
)

var (
	testFirstMarkTime  = time.Date(2024, time.January, 2, 10, 0, 0, 0, time.Local)
	testSecondMarkTime = time.Date(2024, time.February, 3, 11, 30, 0, 0, time.Local)
)

func movieRecord() marker.Record {
	return marker.Record{
		Name:        testMovieNameConstant,
		Code:        testMovieCodeConstant,
		Description: testMovieDescriptionConstant,
	}
}

func TestMergeMarkedCreatesRecordWithSingleEntry(testInstance *testing.T) {
	merged, appended := marker.MergeMarked(marker.File{}, testIdentityConstant, movieRecord(), marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant))

	require.True(testInstance, appended)
	require.Equal(testInstance, marker.Record{
		Name:        testMovieNameConstant,
		Code:        testMovieCodeConstant,
		Description: testMovieDescriptionConstant,
		PathHistory: []marker.PathEntry{marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant)},
	}, merged[testIdentityConstant])
}

func TestMergeMarkedIsIdempotentForSamePath(testInstance *testing.T) {
	first, _ := marker.MergeMarked(marker.File{}, testIdentityConstant, movieRecord(), marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant))
	second, appended := marker.MergeMarked(first, testIdentityConstant, movieRecord(), marker.NewPathEntry(testSecondMarkTime, testMoviePathConstant))

	require.False(testInstance, appended)
	require.Len(testInstance, second[testIdentityConstant].PathHistory, 1)
	require.Equal(testInstance, marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant), second[testIdentityConstant].PathHistory[0])
}

func TestMergeMarkedReplacesMetadataAndCarriesHistory(testInstance *testing.T) {
	first, _ := marker.MergeMarked(marker.File{}, testIdentityConstant, movieRecord(), marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant))

	replacement := marker.Record{Name: "Inception (2010)", Code: "77", Description: "Blu-ray rips"}
	second, appended := marker.MergeMarked(first, testIdentityConstant, replacement, marker.NewPathEntry(testSecondMarkTime, testRelocatedPathConstant))

	require.True(testInstance, appended)
	updated := second[testIdentityConstant]
	require.Equal(testInstance, replacement.Name, updated.Name)
	require.Equal(testInstance, replacement.Code, updated.Code)
	require.Equal(testInstance, replacement.Description, updated.Description)
	require.Equal(testInstance, []marker.PathEntry{
		marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant),
		marker.NewPathEntry(testSecondMarkTime, testRelocatedPathConstant),
	}, updated.PathHistory)

	require.Len(testInstance, first[testIdentityConstant].PathHistory, 1)
	require.Equal(testInstance, testMovieNameConstant, first[testIdentityConstant].Name)
}

func TestMergeMarkedIgnoresReplacementHistory(testInstance *testing.T) {
	replacement := movieRecord()
	replacement.PathHistory = []marker.PathEntry{marker.NewPathEntry(testFirstMarkTime, "/somewhere/else")}

	merged, _ := marker.MergeMarked(marker.File{}, testIdentityConstant, replacement, marker.NewPathEntry(testSecondMarkTime, testMoviePathConstant))

	require.Equal(testInstance, []marker.PathEntry{marker.NewPathEntry(testSecondMarkTime, testMoviePathConstant)}, merged[testIdentityConstant].PathHistory)
}

func TestApplyScanAppendsOnlyMissingPaths(testInstance *testing.T) {
	file := marker.File{
		testIdentityConstant: {
			Name:        testMovieNameConstant,
			Code:        testMovieCodeConstant,
			Description: testMovieDescriptionConstant,
			PathHistory: []marker.PathEntry{marker.NewPathEntry(testFirstMarkTime, testMoviePathConstant)},
		},
		testOtherIdentityConstant: {
			Name:        "Dune",
			Code:        "5",
			Description: "Books, Visual Novels, Comics, Manga",
			PathHistory: []marker.PathEntry{marker.NewPathEntry(testFirstMarkTime, testRelocatedPathConstant)},
		},
	}

	scanned, appendedIdentities := marker.ApplyScan(file, marker.NewPathEntry(testSecondMarkTime, testMoviePathConstant))

	require.Equal(testInstance, []string{testOtherIdentityConstant}, appendedIdentities)
	require.Equal(testInstance, file[testIdentityConstant], scanned[testIdentityConstant])
	require.Len(testInstance, scanned[testOtherIdentityConstant].PathHistory, 2)
	require.Len(testInstance, file[testOtherIdentityConstant].PathHistory, 1)

	for identity, record := range scanned {
		require.Equal(testInstance, file[identity].Metadata(), record.Metadata())
	}
}

func TestApplyScanNeverShrinksHistory(testInstance *testing.T) {
	file := marker.File{testIdentityConstant: {Name: testMovieNameConstant}}
	scanPaths := []string{testMoviePathConstant, testRelocatedPathConstant, testMoviePathConstant, testRelocatedPathConstant}

	previousLength := 0
	for scanIndex, scanPath := range scanPaths {
		file, _ = marker.ApplyScan(file, marker.NewPathEntry(testFirstMarkTime.Add(time.Duration(scanIndex)*time.Hour), scanPath))
		currentLength := len(file[testIdentityConstant].PathHistory)
		require.GreaterOrEqual(testInstance, currentLength, previousLength)
		previousLength = currentLength
	}
	require.Equal(testInstance, 2, previousLength)
}
