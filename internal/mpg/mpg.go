// Package mpg derives fuel-efficiency summaries from a vehicle's fill-up
// history. Three figures are computed independently: lifetime (first to
// last odometer reading over total gallons), current (trailing window) and
// entries (unweighted mean of per-interval MPG). Suspicious mileage jumps
// between consecutive fills are flagged as gaps and kept out of the
// per-interval average, since a missed fill-up would inflate it.
package mpg

import (
	"sort"
	"time"
)

// Entry is one fill-up, read-only as far as this package is concerned.
type Entry struct {
	Mileage int
	Gallons float64
	Date    time.Time
}

// Gap is an interval whose mileage delta exceeded the detection threshold.
type Gap struct {
	StartMileage int `json:"start_mileage"`
	EndMileage   int `json:"end_mileage"`
	Delta        int `json:"delta"`
}

// ZeroGallonInterval marks an interval that recorded no fuel. It is
// excluded from the entries average rather than failing the summary.
type ZeroGallonInterval struct {
	StartMileage int `json:"start_mileage"`
	EndMileage   int `json:"end_mileage"`
}

// Config tunes gap detection and the current-MPG window.
type Config struct {
	// GapMultiplier scales the trailing average per-fill distance; a delta
	// above multiplier*average is a gap.
	GapMultiplier float64
	// GapFallbackMiles is the absolute threshold used while fewer than two
	// accepted intervals exist to average over.
	GapFallbackMiles int
	// CurrentWindow is the number of trailing entries for current MPG.
	// The minimum (and default) of 2 means the last fill pair.
	CurrentWindow int
}

// DefaultConfig matches the thresholds the tracker has always used.
func DefaultConfig() Config {
	return Config{GapMultiplier: 3.0, GapFallbackMiles: 500, CurrentWindow: 2}
}

// Summary is the derived, non-persisted view shown on the fuel page.
// A nil figure means there was not enough usable data, not an error.
type Summary struct {
	Lifetime    *float64             `json:"lifetime_mpg,omitempty"`
	Current     *float64             `json:"current_mpg,omitempty"`
	Entries     *float64             `json:"entries_mpg,omitempty"`
	Gaps        []Gap                `json:"gaps"`
	ZeroGallons []ZeroGallonInterval `json:"zero_gallon_intervals,omitempty"`
}

// Summarize computes the three-tier MPG view for one vehicle's entries.
// Entries are ordered by odometer mileage before anything else; dates are
// not trusted for ordering because backfilled records often carry
// placeholder dates.
func Summarize(entries []Entry, cfg Config) Summary {
	if cfg.GapMultiplier <= 0 {
		cfg.GapMultiplier = 3.0
	}
	if cfg.GapFallbackMiles <= 0 {
		cfg.GapFallbackMiles = 500
	}
	if cfg.CurrentWindow < 2 {
		cfg.CurrentWindow = 2
	}

	summary := Summary{Gaps: []Gap{}}
	if len(entries) < 2 {
		return summary
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mileage < sorted[j].Mileage })

	isGap := classifyIntervals(sorted, cfg, &summary)

	summary.Lifetime = lifetime(sorted)
	summary.Current = current(sorted, cfg.CurrentWindow, isGap)
	summary.Entries = entriesAverage(sorted, isGap, &summary)

	return summary
}

// classifyIntervals walks consecutive pairs and flags gaps. The threshold
// adapts: once two intervals have been accepted, a delta above
// GapMultiplier times their running average is a gap; before that the
// absolute fallback applies.
func classifyIntervals(sorted []Entry, cfg Config, summary *Summary) []bool {
	isGap := make([]bool, len(sorted)-1)

	acceptedSum := 0
	acceptedCount := 0
	for i := 1; i < len(sorted); i++ {
		delta := sorted[i].Mileage - sorted[i-1].Mileage

		threshold := float64(cfg.GapFallbackMiles)
		if acceptedCount >= 2 {
			threshold = cfg.GapMultiplier * float64(acceptedSum) / float64(acceptedCount)
		}

		if float64(delta) > threshold {
			isGap[i-1] = true
			summary.Gaps = append(summary.Gaps, Gap{
				StartMileage: sorted[i-1].Mileage,
				EndMileage:   sorted[i].Mileage,
				Delta:        delta,
			})
			continue
		}
		acceptedSum += delta
		acceptedCount++
	}
	return isGap
}

// lifetime uses only the first and last reading over the gallons of every
// fill except the first, whose preceding distance is unknown.
func lifetime(sorted []Entry) *float64 {
	miles := float64(sorted[len(sorted)-1].Mileage - sorted[0].Mileage)
	gallons := 0.0
	for _, e := range sorted[1:] {
		gallons += e.Gallons
	}
	if gallons <= 0 {
		return nil
	}
	v := miles / gallons
	return &v
}

// current computes the lifetime-style ratio over the trailing window. A
// flagged gap inside the window means the figure would mostly measure the
// missing records, so it is reported as absent instead.
func current(sorted []Entry, window int, isGap []bool) *float64 {
	if window > len(sorted) {
		return nil
	}
	start := len(sorted) - window
	gallons := 0.0
	for i := start + 1; i < len(sorted); i++ {
		if isGap[i-1] {
			return nil
		}
		gallons += sorted[i].Gallons
	}
	if gallons <= 0 {
		return nil
	}
	v := float64(sorted[len(sorted)-1].Mileage-sorted[start].Mileage) / gallons
	return &v
}

// entriesAverage is the unweighted mean of per-interval MPG across
// non-gap intervals. Zero-gallon intervals are excluded and reported.
func entriesAverage(sorted []Entry, isGap []bool, summary *Summary) *float64 {
	sum := 0.0
	count := 0
	for i := 1; i < len(sorted); i++ {
		if isGap[i-1] {
			continue
		}
		gallons := sorted[i].Gallons
		if gallons <= 0 {
			summary.ZeroGallons = append(summary.ZeroGallons, ZeroGallonInterval{
				StartMileage: sorted[i-1].Mileage,
				EndMileage:   sorted[i].Mileage,
			})
			continue
		}
		sum += float64(sorted[i].Mileage-sorted[i-1].Mileage) / gallons
		count++
	}
	if count == 0 {
		return nil
	}
	v := sum / float64(count)
	return &v
}
