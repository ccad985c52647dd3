// normalize.go mapping of raw rows to brood records
package loader

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tphakala/nestwatch-go/internal/model"
	"github.com/tphakala/nestwatch-go/internal/species"
)

// Brood couples a normalized BroodRecord with the raw-row attributes the
// pipeline still needs for capture and location assembly but that have no
// place on the brood table itself.
type Brood struct {
	Record    model.BroodRecord
	FemaleAge *int
	MaleAge   *int
	Plot      string
	Habitat   string
	Latitude  *float64
	Longitude *float64
}

// classCodeToClutchType maps the source class code to the observed clutch
// type. Anything outside {1,2,3} is unknown.
var classCodeToClutchType = map[int]model.ClutchType{
	1: model.ClutchTypeFirst,
	2: model.ClutchTypeSecond,
	3: model.ClutchTypeReplacement,
}

// Normalize converts raw rows into broods: species names become shared
// codes, day-of-year dates become dates in the season year, the class code
// becomes the observed clutch type and positional chick columns become an
// identifier list. speciesFilter limits the output to the given species
// codes, empty means all supported species.
//
// Rows are never dropped for data quality reasons. A row whose species
// cannot be recognized keeps an empty species code and is logged, duplicate
// ring numbers across unrelated nests are passed through as-is, both are
// known upstream data quality issues.
func Normalize(rows []Row, popID string, speciesFilter []string, logger *slog.Logger) []Brood {
	filter := make(map[string]bool, len(speciesFilter))
	for _, code := range speciesFilter {
		filter[code] = true
	}

	broods := make([]Brood, 0, len(rows))
	for i := range rows {
		row := &rows[i]

		code, ok := species.Normalize(row.SpeciesRaw)
		if !ok && row.SpeciesRaw != "" {
			logger.Debug("unrecognized species name, keeping row with empty species code",
				"line", row.Line, "species", row.SpeciesRaw)
		}
		if len(filter) > 0 && !filter[code] {
			continue
		}

		record := model.BroodRecord{
			BroodID:            fmt.Sprintf("%s-%d-%s", popID, row.Year, row.NestID),
			PopID:              popID,
			BreedingSeason:     row.Year,
			SpeciesCode:        code,
			LocationID:         row.NestID,
			LayDate:            dayOfYearToDate(row.Year, row.LayDOY),
			ClutchSize:         row.ClutchSize,
			HatchDate:          dayOfYearToDate(row.Year, row.HatchDOY),
			BroodSize:          row.BroodSize,
			NumberFledged:      row.Fledged,
			ClutchTypeObserved: observedClutchType(row.ClassCode),
			// Calculated type is filled by the classifier
			ClutchTypeCalculated: model.ClutchTypeUnknown,
			ChickIDs:             row.ChickRings,
		}
		if row.FemaleRing != "" {
			ring := row.FemaleRing
			record.FemaleID = &ring
		}
		if row.MaleRing != "" {
			ring := row.MaleRing
			record.MaleID = &ring
		}

		broods = append(broods, Brood{
			Record:    record,
			FemaleAge: row.FemaleAge,
			MaleAge:   row.MaleAge,
			Plot:      row.Plot,
			Habitat:   row.Habitat,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
	}
	return broods
}

// observedClutchType maps a class code to a clutch type, unknown when the
// code is missing or out of range.
func observedClutchType(code *int) model.ClutchType {
	if code == nil {
		return model.ClutchTypeUnknown
	}
	if ct, ok := classCodeToClutchType[*code]; ok {
		return ct
	}
	return model.ClutchTypeUnknown
}

// dayOfYearToDate converts a day-of-year value to a date in the given season
// year. Day values past the calendar year roll over, which matches how the
// institution records late replacement clutches.
func dayOfYearToDate(year int, doy *int) *time.Time {
	if doy == nil || year == 0 {
		return nil
	}
	d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, *doy-1)
	return &d
}
