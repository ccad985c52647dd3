// age.go age resolution across an individual's capture history
package breeding

import (
	"github.com/tphakala/nestwatch-go/internal/model"
)

// ResolveAges fills in a calculated EURING-style age code for every capture
// of one individual. The input must be sorted ascending by capture date and
// belong to a single individual.
//
// The earliest capture carrying a known age code is used as the anchor; every
// other capture derives its code by stepping the anchor code through the
// EURING ladder once per elapsed breeding season, forward or backward. A
// capture flagged as a nestling ringing counts as an observed pullus even
// when no age code was recorded, which pins the individual's hatch year to
// its ring year.
//
// The result is aligned 1:1 with the input. A nil entry means the age could
// not be resolved, which is distinct from AgeFullGrown (explicitly coded as
// unknown-age adult). When no capture has a known age the whole result is
// nil entries; that is a valid outcome, never an error.
func ResolveAges(captures []model.CaptureRecord) []*int {
	resolved := make([]*int, len(captures))

	// Locate the anchor: earliest capture with a usable observed age.
	anchorIdx := -1
	for i := range captures {
		if code, ok := observedAge(&captures[i]); ok && KnownAgeCode(code) {
			anchorIdx = i
			break
		}
	}
	if anchorIdx == -1 {
		// No anchor, every age stays unresolved.
		return resolved
	}

	anchorCode, _ := observedAge(&captures[anchorIdx])
	anchorSeason := captures[anchorIdx].BreedingSeason

	for i := range captures {
		resolved[i] = projectAge(anchorCode, anchorSeason, captures[i].BreedingSeason)
	}
	return resolved
}

// observedAge returns the effective observed age code of a capture. A
// nestling ringing without a recorded code is an implicit pullus.
func observedAge(c *model.CaptureRecord) (int, bool) {
	if c.AgeObserved != nil {
		return *c.AgeObserved, true
	}
	if c.Chick {
		return AgePullus, true
	}
	return 0, false
}

// projectAge steps an anchor age code through the EURING ladder by the number
// of breeding seasons between anchorSeason and season. Returns nil when the
// projection falls off the ladder.
func projectAge(anchorCode, anchorSeason, season int) *int {
	code := anchorCode
	ok := true
	switch delta := season - anchorSeason; {
	case delta > 0:
		for range delta {
			code, ok = stepForward(code)
			if !ok {
				return nil
			}
		}
	case delta < 0:
		for range -delta {
			code, ok = stepBackward(code)
			if !ok {
				return nil
			}
		}
	}
	return &code
}

func stepForward(code int) (int, bool) {
	next, ok := nextAgeCode[code]
	return next, ok
}

func stepBackward(code int) (int, bool) {
	prev, ok := prevAgeCode[code]
	return prev, ok
}
