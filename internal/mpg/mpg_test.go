package mpg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesFixture() []Entry {
	// Gallons on an entry belong to the interval it closes; the first
	// fill's 9 gallons cover an unknown distance and never enter a ratio.
	return []Entry{
		{Mileage: 10000, Gallons: 9},
		{Mileage: 10400, Gallons: 10},
		{Mileage: 10900, Gallons: 12},
		{Mileage: 18900, Gallons: 11},
	}
}

func TestSummarizeFlagsLargeGapAndExcludesIt(t *testing.T) {
	s := Summarize(entriesFixture(), DefaultConfig())

	// Third interval jumps 8000 miles against a ~450 trailing average.
	require.Len(t, s.Gaps, 1)
	assert.Equal(t, Gap{StartMileage: 10900, EndMileage: 18900, Delta: 8000}, s.Gaps[0])

	// Entries MPG averages only the two plausible intervals.
	require.NotNil(t, s.Entries)
	want := (400.0/10.0 + 500.0/12.0) / 2.0
	assert.InDelta(t, want, *s.Entries, 1e-9)

	// Lifetime still spans the whole history: 8900 miles over the last
	// three fills' 33 gallons.
	require.NotNil(t, s.Lifetime)
	assert.InDelta(t, 8900.0/33.0, *s.Lifetime, 1e-9)

	// The trailing pair is the flagged gap, so current is absent.
	assert.Nil(t, s.Current)
}

func TestSummarizeCurrentUsesTrailingPair(t *testing.T) {
	entries := []Entry{
		{Mileage: 10000, Gallons: 9},
		{Mileage: 10400, Gallons: 10},
		{Mileage: 10900, Gallons: 12},
	}
	s := Summarize(entries, DefaultConfig())

	require.NotNil(t, s.Current)
	assert.InDelta(t, 500.0/12.0, *s.Current, 1e-9)
	assert.Empty(t, s.Gaps)
}

func TestSummarizeCurrentWiderWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CurrentWindow = 3
	entries := []Entry{
		{Mileage: 10000, Gallons: 9},
		{Mileage: 10400, Gallons: 10},
		{Mileage: 10900, Gallons: 12},
	}
	s := Summarize(entries, cfg)

	require.NotNil(t, s.Current)
	assert.InDelta(t, 900.0/22.0, *s.Current, 1e-9)
}

func TestSummarizeSingleEntry(t *testing.T) {
	s := Summarize([]Entry{{Mileage: 50000, Gallons: 12}}, DefaultConfig())

	assert.Nil(t, s.Lifetime)
	assert.Nil(t, s.Current)
	assert.Nil(t, s.Entries)
	assert.Empty(t, s.Gaps)
}

func TestSummarizeNoEntries(t *testing.T) {
	s := Summarize(nil, DefaultConfig())
	assert.Nil(t, s.Lifetime)
	assert.Empty(t, s.Gaps)
}

func TestSummarizeZeroGallonIntervalExcludedNotFatal(t *testing.T) {
	entries := []Entry{
		{Mileage: 10000, Gallons: 9},
		{Mileage: 10400, Gallons: 0}, // data-entry mistake
		{Mileage: 10900, Gallons: 12},
	}
	s := Summarize(entries, DefaultConfig())

	require.Len(t, s.ZeroGallons, 1)
	assert.Equal(t, ZeroGallonInterval{StartMileage: 10000, EndMileage: 10400}, s.ZeroGallons[0])

	// Only the second interval contributes to the average.
	require.NotNil(t, s.Entries)
	assert.InDelta(t, 500.0/12.0, *s.Entries, 1e-9)

	// Lifetime still counts every fill after the first, including the
	// zero-gallon one.
	require.NotNil(t, s.Lifetime)
	assert.InDelta(t, 900.0/12.0, *s.Lifetime, 1e-9)
}

func TestSummarizeAbsoluteFallbackForSparseHistory(t *testing.T) {
	entries := []Entry{
		{Mileage: 10000, Gallons: 10},
		{Mileage: 10800, Gallons: 11}, // 800 > 500 fallback, no average yet
	}
	s := Summarize(entries, DefaultConfig())

	require.Len(t, s.Gaps, 1)
	assert.Equal(t, 800, s.Gaps[0].Delta)
	assert.Nil(t, s.Entries)
	assert.Nil(t, s.Current)
	// Lifetime is indifferent to gaps.
	require.NotNil(t, s.Lifetime)
	assert.InDelta(t, 800.0/11.0, *s.Lifetime, 1e-9)
}

func TestSummarizeSortsByMileageNotInputOrder(t *testing.T) {
	entries := []Entry{
		{Mileage: 10900, Gallons: 12},
		{Mileage: 10000, Gallons: 9},
		{Mileage: 10400, Gallons: 10},
	}
	s := Summarize(entries, DefaultConfig())

	require.NotNil(t, s.Lifetime)
	assert.InDelta(t, 900.0/22.0, *s.Lifetime, 1e-9)
}

func TestSummarizeAllGallonsZero(t *testing.T) {
	entries := []Entry{
		{Mileage: 10000, Gallons: 0},
		{Mileage: 10400, Gallons: 0},
	}
	s := Summarize(entries, DefaultConfig())

	assert.Nil(t, s.Lifetime)
	assert.Nil(t, s.Current)
	assert.Nil(t, s.Entries)
	require.Len(t, s.ZeroGallons, 1)
}
