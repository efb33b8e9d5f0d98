package domain

import (
	"math"

	"github.com/montanaflynn/stats"
)

// EffortUnit is the bucket size, in weighted lines, used by the effort score.
const EffortUnit = 200.0

// FileChange holds the per-file change counts reported for a pull request.
type FileChange struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// ChangeDistribution summarizes how changes are spread across the files of a
// pull request. All values are zero when the pull request has no files.
type ChangeDistribution struct {
	MeanChanges   float64 `json:"mean_changes"`
	MedianChanges float64 `json:"median_changes"`
	MaxChanges    float64 `json:"max_changes"`
}

// ChangeStats is the aggregate change record for one pull request.
// It is computed once per run and never mutated afterwards.
type ChangeStats struct {
	FilesChanged int                `json:"files_changed"`
	Additions    int                `json:"additions"`
	Deletions    int                `json:"deletions"`
	TotalChanges int                `json:"total_changes"`
	Effort       float64            `json:"effort"`
	Files        []string           `json:"files"`
	Distribution ChangeDistribution `json:"distribution"`
}

// ComputeEffort converts raw addition/deletion counts into the effort score.
// Deletions count a fifth of an addition. The weighted line count is bucketed
// into units of EffortUnit lines; full units contribute sqrt(EffortUnit) each
// and the partial last unit contributes the square root of its remainder, so
// the score grows sub-linearly but stays smooth within a unit.
func ComputeEffort(additions, deletions int) float64 {
	lineScore := float64(deletions)*0.2 + float64(additions)*1.0
	unitCount := math.Floor(lineScore / EffortUnit)
	remainder := lineScore - unitCount*EffortUnit
	if remainder < 0 {
		// Floating-point rounding can push the remainder fractionally
		// below zero; sqrt of a negative would produce NaN.
		remainder = 0
	}
	return unitCount*math.Sqrt(EffortUnit) + math.Sqrt(remainder)
}

// NewChangeStats aggregates per-file changes into a ChangeStats record.
// A nil or empty file list yields a zero-valued record, not an error.
func NewChangeStats(files []FileChange) *ChangeStats {
	cs := &ChangeStats{
		Files: make([]string, 0, len(files)),
	}
	perFile := make([]float64, 0, len(files))
	for _, f := range files {
		cs.Additions += f.Additions
		cs.Deletions += f.Deletions
		cs.TotalChanges += f.Changes
		cs.Files = append(cs.Files, f.Path)
		perFile = append(perFile, float64(f.Changes))
	}
	cs.FilesChanged = len(files)
	cs.Effort = ComputeEffort(cs.Additions, cs.Deletions)
	cs.Distribution = newChangeDistribution(perFile)
	return cs
}

func newChangeDistribution(perFile []float64) ChangeDistribution {
	if len(perFile) == 0 {
		return ChangeDistribution{}
	}
	// stats only errors on empty input, which is handled above.
	mean, _ := stats.Mean(perFile)
	median, _ := stats.Median(perFile)
	maxVal, _ := stats.Max(perFile)
	return ChangeDistribution{
		MeanChanges:   mean,
		MedianChanges: median,
		MaxChanges:    maxVal,
	}
}
