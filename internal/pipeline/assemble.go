// assemble.go capture, individual and location table assembly
package pipeline

import (
	"sort"
	"time"

	"github.com/tphakala/nestwatch-go/internal/loader"
	"github.com/tphakala/nestwatch-go/internal/model"
)

// Capture date proxy constants. Capture dates are not observed directly:
// adults are handled at the nest around laying, chicks are ringed shortly
// before fledging. Laying advances one egg per day, so the chick proxy date
// is layDate + clutchSize + incubation + rearing.
const (
	incubationDays = 15
	rearingDays    = 12
)

// parentRoles tracks in which parental roles an individual was observed,
// for sex inference.
type parentRoles struct {
	female bool
	male   bool
}

// assembleCaptures expands broods into one capture per attending parent and
// one per ringed chick. The returned role map feeds sex inference during
// individual aggregation.
func assembleCaptures(broods []loader.Brood) ([]model.CaptureRecord, map[string]*parentRoles) {
	var captures []model.CaptureRecord
	roles := make(map[string]*parentRoles)

	role := func(id string) *parentRoles {
		r, ok := roles[id]
		if !ok {
			r = &parentRoles{}
			roles[id] = r
		}
		return r
	}

	for i := range broods {
		brood := &broods[i]
		record := &brood.Record

		if record.FemaleID != nil {
			role(*record.FemaleID).female = true
			captures = append(captures, model.CaptureRecord{
				IndividualID:   *record.FemaleID,
				SpeciesCode:    record.SpeciesCode,
				BreedingSeason: record.BreedingSeason,
				CaptureDate:    copyDate(record.LayDate),
				LocationID:     record.LocationID,
				BroodID:        record.BroodID,
				AgeObserved:    copyAge(brood.FemaleAge),
			})
		}

		if record.MaleID != nil {
			role(*record.MaleID).male = true
			captures = append(captures, model.CaptureRecord{
				IndividualID:   *record.MaleID,
				SpeciesCode:    record.SpeciesCode,
				BreedingSeason: record.BreedingSeason,
				CaptureDate:    copyDate(record.LayDate),
				LocationID:     record.LocationID,
				BroodID:        record.BroodID,
				AgeObserved:    copyAge(brood.MaleAge),
			})
		}

		chickDate := chickCaptureDate(record)
		for _, ring := range record.ChickIDs {
			captures = append(captures, model.CaptureRecord{
				IndividualID:   ring,
				SpeciesCode:    record.SpeciesCode,
				BreedingSeason: record.BreedingSeason,
				CaptureDate:    copyDate(chickDate),
				LocationID:     record.LocationID,
				BroodID:        record.BroodID,
				Chick:          true,
			})
		}
	}

	return captures, roles
}

// chickCaptureDate derives the proxy ringing date of a brood's chicks.
// Returns nil when lay date or clutch size is missing.
func chickCaptureDate(record *model.BroodRecord) *time.Time {
	if record.LayDate == nil || record.ClutchSize == nil {
		return nil
	}
	d := record.LayDate.AddDate(0, 0, *record.ClutchSize+incubationDays+rearingDays)
	return &d
}

// assembleIndividuals aggregates captures into one summary per individual.
// First-seen values win: species and ring season come from the earliest
// capture, which the age resolution stage has already ordered per
// individual. Sex derives from parental roles; an individual recorded as
// both mother and father gets the conflict code and is passed through for
// manual review.
func assembleIndividuals(captures []model.CaptureRecord, roles map[string]*parentRoles, popID string) []model.IndividualSummary {
	firstByID := make(map[string]*model.CaptureRecord)
	var order []string
	for i := range captures {
		c := &captures[i]
		first, ok := firstByID[c.IndividualID]
		if !ok {
			firstByID[c.IndividualID] = c
			order = append(order, c.IndividualID)
			continue
		}
		if earlierCapture(c, first) {
			firstByID[c.IndividualID] = c
		}
	}
	sort.Strings(order)

	individuals := make([]model.IndividualSummary, 0, len(order))
	for _, id := range order {
		first := firstByID[id]
		summary := model.IndividualSummary{
			IndividualID: id,
			SpeciesCode:  first.SpeciesCode,
			PopID:        popID,
			RingSeason:   first.BreedingSeason,
			RingAge:      model.RingAgeAdult,
			Sex:          inferSex(roles[id]),
		}
		if first.Chick {
			summary.RingAge = model.RingAgeChick
			summary.BroodIDFledged = first.BroodID
		}
		individuals = append(individuals, summary)
	}
	return individuals
}

// earlierCapture reports whether a is an earlier capture than b, preferring
// dated captures and falling back to the breeding season.
func earlierCapture(a, b *model.CaptureRecord) bool {
	switch {
	case a.CaptureDate != nil && b.CaptureDate != nil:
		return a.CaptureDate.Before(*b.CaptureDate)
	case a.CaptureDate != nil:
		return true
	case b.CaptureDate != nil:
		return false
	default:
		return a.BreedingSeason < b.BreedingSeason
	}
}

func inferSex(r *parentRoles) string {
	switch {
	case r == nil:
		return ""
	case r.female && r.male:
		return model.SexConflicted
	case r.female:
		return model.SexFemale
	case r.male:
		return model.SexMale
	default:
		return ""
	}
}

// assembleLocations builds one row per distinct location with first-seen
// coordinates and habitat, and the span of seasons the location was in use.
func assembleLocations(broods []loader.Brood, popID string) []model.LocationRecord {
	byID := make(map[string]*model.LocationRecord)
	var order []string

	for i := range broods {
		brood := &broods[i]
		record := &brood.Record
		if record.LocationID == "" {
			continue
		}

		loc, ok := byID[record.LocationID]
		if !ok {
			loc = &model.LocationRecord{
				LocationID:   record.LocationID,
				PopID:        popID,
				LocationType: "NB", // the population is an all nest box study site
				HabitatType:  brood.Habitat,
				Latitude:     brood.Latitude,
				Longitude:    brood.Longitude,
				StartSeason:  record.BreedingSeason,
				EndSeason:    record.BreedingSeason,
			}
			byID[record.LocationID] = loc
			order = append(order, record.LocationID)
			continue
		}

		// First-seen coordinates win, the season span extends.
		if loc.Latitude == nil {
			loc.Latitude = brood.Latitude
		}
		if loc.Longitude == nil {
			loc.Longitude = brood.Longitude
		}
		if record.BreedingSeason < loc.StartSeason {
			loc.StartSeason = record.BreedingSeason
		}
		if record.BreedingSeason > loc.EndSeason {
			loc.EndSeason = record.BreedingSeason
		}
	}

	sort.Strings(order)
	locations := make([]model.LocationRecord, 0, len(order))
	for _, id := range order {
		locations = append(locations, *byID[id])
	}
	return locations
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := *t
	return &d
}

func copyAge(v *int) *int {
	if v == nil {
		return nil
	}
	a := *v
	return &a
}
