package classify

import "workhours/worklog"

const (
	FlagDuplicate = "duplicate"
	FlagOverlap   = "overlap"
)

// OverlapInfo pairs a candidate with the existing interval it intersects.
type OverlapInfo struct {
	Candidate worklog.Interval
	Existing  worklog.Interval
}

// Overlaps reports whether a and b share any time. Touching bounds do not overlap.
func Overlaps(a, b worklog.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ClassifyCandidates splits candidates into new intervals, overlaps with existing
// intervals, and the number of exact structural duplicates.
func ClassifyCandidates(candidates, existing []worklog.Interval) ([]worklog.Interval, []OverlapInfo, int) {
	toAdd := make([]worklog.Interval, 0, len(candidates))
	overlaps := make([]OverlapInfo, 0)
	duplicates := 0

	for _, candidate := range candidates {
		isDuplicate := false
		for _, existingEntry := range existing {
			if existingEntry.Equal(candidate) {
				isDuplicate = true
				break
			}
		}
		if isDuplicate {
			duplicates++
			continue
		}

		for _, existingEntry := range existing {
			if Overlaps(candidate, existingEntry) {
				overlaps = append(overlaps, OverlapInfo{Candidate: candidate, Existing: existingEntry})
				break
			}
		}

		toAdd = append(toAdd, candidate)
	}

	return toAdd, overlaps, duplicates
}

// Flags marks intervals that duplicate or overlap another interval of the same list.
// Duplicates win over overlaps. Unflagged indexes are absent from the result.
func Flags(intervals []worklog.Interval) map[int]string {
	flags := make(map[int]string)
	for i := range intervals {
		for j := range intervals {
			if i == j {
				continue
			}
			if intervals[i].Equal(intervals[j]) {
				flags[i] = FlagDuplicate
				break
			}
			if Overlaps(intervals[i], intervals[j]) {
				flags[i] = FlagOverlap
			}
		}
	}
	return flags
}
