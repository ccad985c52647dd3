// Package pipeline orchestrates the conversion run: load, normalize,
// classify clutch types, assemble the four output tables, resolve ages and
// export. Stages are pure and run sequentially; the only carried state is
// the per-group scan state inside the classifier and age resolver.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/tphakala/nestwatch-go/internal/breeding"
	"github.com/tphakala/nestwatch-go/internal/conf"
	"github.com/tphakala/nestwatch-go/internal/errors"
	"github.com/tphakala/nestwatch-go/internal/export"
	"github.com/tphakala/nestwatch-go/internal/loader"
	"github.com/tphakala/nestwatch-go/internal/logging"
	"github.com/tphakala/nestwatch-go/internal/model"
	"github.com/tphakala/nestwatch-go/internal/species"
)

// Audit counts the unresolved sentinel values of one run. The counts are
// logged at the end of every run so ambiguous source records stay visible
// for manual review.
type Audit struct {
	BroodsTotal         int
	ClutchTypeUnknown   int
	CapturesTotal       int
	AgesUnresolved      int
	IndividualsTotal    int
	SexConflicts        int
	LocationsTotal      int
	SpeciesUnrecognized int
}

// Result holds the outcome of one conversion run. Tables is populated in
// every output mode so embedding callers and tests can inspect the output
// without re-reading files.
type Result struct {
	RunID   string
	Dataset *export.Dataset
	Tables  []export.Table
	Audit   Audit
}

// Run executes the full conversion for the given settings. Structural input
// problems abort the run; per-record ambiguity degrades to sentinel values
// and is reported in the audit counts.
func Run(settings *conf.Settings) (*Result, error) {
	runID := uuid.New().String()
	logger := logging.ForService("pipeline")
	if logger == nil {
		logger = slog.Default()
	}
	// When the main log file is enabled the run log goes there instead of
	// the console, with the rotation policy from the configuration.
	if settings.Main.Log.Enabled {
		level := slog.LevelInfo
		if settings.Debug {
			level = slog.LevelDebug
		}
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log, "pipeline", level)
		if err != nil {
			logger.Warn("file logging disabled", "path", settings.Main.Log.Path, "error", err)
		} else {
			defer func() { _ = closeLogger() }()
			logger = fileLogger
		}
	}
	logger = logger.With("run_id", runID)

	if err := validateSpeciesFilter(settings.Species); err != nil {
		return nil, err
	}

	logger.Info("loading raw data", "source", settings.Input.Source, "file", settings.Input.File)
	rows, err := loader.Load(settings)
	if err != nil {
		return nil, err
	}
	logger.Info("raw data loaded", "rows", len(rows))

	popID := settings.Main.Name
	broods := loader.Normalize(rows, popID, settings.Species, logger)
	logger.Info("rows normalized", "broods", len(broods), "filtered_out", len(rows)-len(broods))

	classifyBroods(broods, settings.Clutch.MaxRenestDays)
	logger.Info("clutch types classified", "max_renest_days", settings.Clutch.MaxRenestDays)

	captures, roles := assembleCaptures(broods)
	logger.Info("captures assembled", "captures", len(captures))

	resolveAges(captures)
	logger.Info("ages resolved")

	individuals := assembleIndividuals(captures, roles, popID)
	logger.Info("individuals aggregated", "individuals", len(individuals))

	locations := assembleLocations(broods, popID)
	logger.Info("locations assembled", "locations", len(locations))

	dataset := &export.Dataset{
		PopID:       popID,
		Broods:      make([]model.BroodRecord, 0, len(broods)),
		Captures:    captures,
		Individuals: individuals,
		Locations:   locations,
	}
	for i := range broods {
		dataset.Broods = append(dataset.Broods, broods[i].Record)
	}

	tables, err := export.BuildTables(dataset)
	if err != nil {
		return nil, errors.New(err).
			Component("pipeline").
			Category(errors.CategoryProcessing).
			Build()
	}

	switch settings.Output.Mode {
	case conf.OutputModeCSV:
		if err := export.WriteCSV(dataset, settings.Output.Path); err != nil {
			return nil, err
		}
		logger.Info("tables exported", "mode", settings.Output.Mode, "path", settings.Output.Path)
	case conf.OutputModeSQLite:
		if err := export.WriteSQLite(dataset, settings.Output.SQLite.Path); err != nil {
			return nil, err
		}
		logger.Info("tables exported", "mode", settings.Output.Mode, "path", settings.Output.SQLite.Path)
	case conf.OutputModeMemory:
		// Tables are returned on the result, nothing to write.
	}

	result := &Result{
		RunID:   runID,
		Dataset: dataset,
		Tables:  tables,
		Audit:   buildAudit(dataset),
	}
	logAudit(logger, &result.Audit)
	return result, nil
}

// validateSpeciesFilter rejects unknown species codes in the configured
// filter. A typo here would silently produce empty tables, so it is a
// structural error, not a per-record one.
func validateSpeciesFilter(filter []string) error {
	for _, code := range filter {
		if _, ok := species.Lookup(code); !ok {
			return errors.Newf("unknown species code in filter: %q", code).
				Component("pipeline").
				Category(errors.CategoryConfiguration).
				Context("supported", species.Codes()).
				Build()
		}
	}
	return nil
}

// classifyBroods groups broods by (season, female) and runs the clutch
// classifier on each group. Broods without a female identifier cannot be
// grouped and keep their unknown classification.
func classifyBroods(broods []loader.Brood, maxRenestDays int) {
	type groupKey struct {
		season int
		female string
	}
	groups := make(map[groupKey][]int)
	for i := range broods {
		record := &broods[i].Record
		if record.FemaleID == nil {
			continue
		}
		key := groupKey{season: record.BreedingSeason, female: *record.FemaleID}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		// Copy the group and carry the source index through the sort in
		// the ID field, which is unused until database export.
		group := make([]model.BroodRecord, len(idxs))
		for j, i := range idxs {
			group[j] = broods[i].Record
			group[j].ID = uint(i)
		}
		breeding.SortBroods(group)
		types := breeding.Classify(group, maxRenestDays)
		for j := range group {
			broods[group[j].ID].Record.ClutchTypeCalculated = types[j]
		}
	}
}

// resolveAges groups captures per individual, orders each history by capture
// date and fills in the calculated age codes.
func resolveAges(captures []model.CaptureRecord) {
	groups := make(map[string][]int)
	for i := range captures {
		groups[captures[i].IndividualID] = append(groups[captures[i].IndividualID], i)
	}

	for _, idxs := range groups {
		// Chronological order, captures without a derived date last.
		sort.SliceStable(idxs, func(a, b int) bool {
			da, db := captures[idxs[a]].CaptureDate, captures[idxs[b]].CaptureDate
			switch {
			case da == nil:
				return false
			case db == nil:
				return true
			default:
				return da.Before(*db)
			}
		})

		history := make([]model.CaptureRecord, len(idxs))
		for j, i := range idxs {
			history[j] = captures[i]
		}
		resolved := breeding.ResolveAges(history)
		for j, i := range idxs {
			captures[i].AgeCalculated = resolved[j]
		}
	}
}

// buildAudit counts the sentinel values left in the converted dataset.
func buildAudit(ds *export.Dataset) Audit {
	audit := Audit{
		BroodsTotal:      len(ds.Broods),
		CapturesTotal:    len(ds.Captures),
		IndividualsTotal: len(ds.Individuals),
		LocationsTotal:   len(ds.Locations),
	}
	for i := range ds.Broods {
		if ds.Broods[i].ClutchTypeCalculated == model.ClutchTypeUnknown {
			audit.ClutchTypeUnknown++
		}
		if ds.Broods[i].SpeciesCode == "" {
			audit.SpeciesUnrecognized++
		}
	}
	for i := range ds.Captures {
		if ds.Captures[i].AgeCalculated == nil {
			audit.AgesUnresolved++
		}
	}
	for i := range ds.Individuals {
		if ds.Individuals[i].Sex == model.SexConflicted {
			audit.SexConflicts++
		}
	}
	return audit
}

func logAudit(logger *slog.Logger, audit *Audit) {
	logger.Info("run complete",
		"broods", audit.BroodsTotal,
		"clutch_type_unknown", audit.ClutchTypeUnknown,
		"captures", audit.CapturesTotal,
		"ages_unresolved", audit.AgesUnresolved,
		"individuals", audit.IndividualsTotal,
		"sex_conflicts", audit.SexConflicts,
		"locations", audit.LocationsTotal,
		"species_unrecognized", audit.SpeciesUnrecognized,
	)
}

// Summary returns a short human readable audit summary for terminal output.
func (a *Audit) Summary() string {
	return fmt.Sprintf(
		"broods: %d (%d unknown clutch type), captures: %d (%d unresolved ages), individuals: %d (%d sex conflicts), locations: %d",
		a.BroodsTotal, a.ClutchTypeUnknown,
		a.CapturesTotal, a.AgesUnresolved,
		a.IndividualsTotal, a.SexConflicts,
		a.LocationsTotal,
	)
}
