// clutch.go clutch type classification for one female's broods in one season
package breeding

import (
	"time"

	"github.com/tphakala/nestwatch-go/internal/model"
)

// Classify assigns a clutch type to each brood of one female in one breeding
// season. The input must already be grouped by (season, female) and sorted
// ascending by lay date with a stable sort, missing lay dates last.
//
// The earliest brood is always first, unless its lay date is missing in
// which case it is unknown. Each later brood measures its gap in days from
// the previous brood with a known lay date (the anchor): within
// maxRenestDays the brood is a replacement when the anchor attempt failed
// and a second clutch when it succeeded; over the interval, or when the
// anchor outcome is unknown, the brood is unknown. A brood laid on the same
// day as the anchor cannot be temporally ordered against it and is unknown;
// the anchor does not advance to it.
//
// The scan carries only the anchor's date and outcome, never the full
// history. Classification never fails, unclassifiable cases degrade to
// unknown which downstream consumers treat as insufficient information.
func Classify(broods []model.BroodRecord, maxRenestDays int) []model.ClutchType {
	types := make([]model.ClutchType, len(broods))
	if len(broods) == 0 {
		return types
	}

	// anchor is the previous brood with a known lay date
	var anchor *model.BroodRecord

	for i := range broods {
		current := &broods[i]

		if current.LayDate == nil {
			// Without a date the brood cannot be placed in the sequence.
			types[i] = model.ClutchTypeUnknown
			continue
		}

		if anchor == nil {
			// Earliest dated brood of the season.
			if i == 0 {
				types[i] = model.ClutchTypeFirst
			} else {
				// Earlier broods existed but carried no dates, so this
				// brood's position in the sequence is ambiguous.
				types[i] = model.ClutchTypeUnknown
			}
			anchor = current
			continue
		}

		gap := daysBetween(*anchor.LayDate, *current.LayDate)

		switch {
		case gap == 0:
			// Same-day companion brood, cannot be ordered against the
			// anchor. The anchor stays where it is.
			types[i] = model.ClutchTypeUnknown
			continue
		case gap > maxRenestDays:
			// Too far apart to belong to the same reproductive sequence.
			types[i] = model.ClutchTypeUnknown
		case !anchor.OutcomeKnown():
			// Gap fits but the previous outcome is unrecorded.
			types[i] = model.ClutchTypeUnknown
		case anchor.Failed():
			types[i] = model.ClutchTypeReplacement
		default:
			types[i] = model.ClutchTypeSecond
		}

		anchor = current
	}

	return types
}

// daysBetween returns the number of whole days from a to b. Lay dates carry
// no time of day, so truncation is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// SortBroods orders broods ascending by lay date with a stable sort, missing
// lay dates last, preserving original row order for ties. Classify requires
// this ordering.
func SortBroods(broods []model.BroodRecord) {
	stableSortBy(broods, func(a, b *model.BroodRecord) bool {
		switch {
		case a.LayDate == nil:
			return false
		case b.LayDate == nil:
			return true
		default:
			return a.LayDate.Before(*b.LayDate)
		}
	})
}

// stableSortBy is a small insertion sort, stable by construction. Brood
// groups are a handful of rows so no allocation or sort.SliceStable overhead
// is warranted.
func stableSortBy(broods []model.BroodRecord, less func(a, b *model.BroodRecord) bool) {
	for i := 1; i < len(broods); i++ {
		for j := i; j > 0 && less(&broods[j], &broods[j-1]); j-- {
			broods[j], broods[j-1] = broods[j-1], broods[j]
		}
	}
}
