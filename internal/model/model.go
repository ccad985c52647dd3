// model.go this code defines the data model for the application
package model

import "time"

// ClutchType classifies a breeding attempt within one season for one female.
type ClutchType string

const (
	ClutchTypeFirst       ClutchType = "first"
	ClutchTypeSecond      ClutchType = "second"
	ClutchTypeReplacement ClutchType = "replacement"
	ClutchTypeUnknown     ClutchType = "unknown"
)

// Sex codes carried on IndividualSummary. SexConflicted marks an individual
// observed as both mother and father across broods, a known data quality
// issue in the source material that is passed through for manual review.
const (
	SexFemale     = "F"
	SexMale       = "M"
	SexConflicted = "C"
)

// Ring age classes, the coarse age of an individual at first capture.
const (
	RingAgeChick = "chick"
	RingAgeAdult = "adult"
)

// BroodRecord represents a single nesting attempt. It is materialized once
// from the raw input and is immutable afterwards, except for the derived
// ClutchTypeCalculated field which is written by the clutch classifier.
type BroodRecord struct {
	ID             uint   `gorm:"primaryKey"`
	BroodID        string `gorm:"index:idx_broods_broodid"`
	PopID          string
	BreedingSeason int    `gorm:"index:idx_broods_season"`
	SpeciesCode    string `gorm:"index:idx_broods_species"`
	FemaleID       *string
	MaleID         *string
	LocationID     string
	LayDate        *time.Time
	ClutchSize     *int
	HatchDate      *time.Time
	BroodSize      *int // number of hatched young observed
	NumberFledged  *int // number of fledged young observed

	// ClutchTypeObserved comes from the source class code {1,2,3},
	// ClutchTypeCalculated from the classifier. Both are kept so the two
	// can be compared downstream.
	ClutchTypeObserved   ClutchType
	ClutchTypeCalculated ClutchType

	// ChickIDs is the narrow form of the source's chick1..chick13 columns.
	// Chicks are emitted as CaptureRecords, so the list is not persisted.
	ChickIDs []string `gorm:"-"`
}

// Failed reports whether no young survived this attempt. Fledge count is
// authoritative when present, brood size is the fallback. Returns false for
// both success and unknown outcome, use OutcomeKnown to tell them apart.
func (b *BroodRecord) Failed() bool {
	if b.NumberFledged != nil {
		return *b.NumberFledged == 0
	}
	if b.BroodSize != nil {
		return *b.BroodSize == 0
	}
	return false
}

// OutcomeKnown reports whether the attempt has any outcome information at all.
func (b *BroodRecord) OutcomeKnown() bool {
	return b.NumberFledged != nil || b.BroodSize != nil
}

// CaptureRecord represents one observed capture of one individual. Capture
// dates are derived proxy dates, not directly observed: adults are captured
// at the lay date of the brood they attended, chicks at lay date + clutch
// size + a fixed incubation and rearing constant.
type CaptureRecord struct {
	ID             uint   `gorm:"primaryKey"`
	IndividualID   string `gorm:"index:idx_captures_indv"`
	SpeciesCode    string
	BreedingSeason int
	CaptureDate    *time.Time
	LocationID     string
	BroodID        string

	// AgeObserved is the EURING-style age code recorded at capture, nil
	// when none was recorded. AgeCalculated is filled by the age resolver;
	// nil means unresolved, which is distinct from EURING code 0
	// ("age unknown") recorded in the field.
	AgeObserved   *int
	AgeCalculated *int

	// Chick is true when this capture is the pre-fledging ringing of a
	// nestling, the individual's hatch-year anchor for age resolution.
	Chick bool
}

// IndividualSummary aggregates one individual across all of its captures.
type IndividualSummary struct {
	ID             uint   `gorm:"primaryKey"`
	IndividualID   string `gorm:"index:idx_individuals_indv"`
	SpeciesCode    string
	PopID          string
	RingSeason     int    // year of first capture
	RingAge        string // RingAgeChick or RingAgeAdult
	Sex            string // SexFemale, SexMale, SexConflicted or empty
	BroodIDFledged string // originating brood when first captured as a chick
}

// LocationRecord describes one distinct nesting location with its
// first-seen coordinates.
type LocationRecord struct {
	ID           uint   `gorm:"primaryKey"`
	LocationID   string `gorm:"index:idx_locations_loc"`
	PopID        string
	LocationType string
	HabitatType  string
	Latitude     *float64
	Longitude    *float64
	StartSeason  int
	EndSeason    int
}
