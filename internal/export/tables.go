// Package export turns the converted records into the four standard output
// tables and emits them as CSV files, in-memory tables or a SQLite database.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tphakala/nestwatch-go/internal/model"
	"github.com/tphakala/nestwatch-go/internal/schema"
)

// Dataset holds the converted records of one pipeline run.
type Dataset struct {
	PopID       string
	Broods      []model.BroodRecord
	Captures    []model.CaptureRecord
	Individuals []model.IndividualSummary
	Locations   []model.LocationRecord
}

// Table is one output table with columns ordered per its schema template.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// dateFormat is the ISO 8601 date format used on all output tables.
const dateFormat = "2006-01-02"

// BuildTables assembles the four output tables from a dataset, columns
// ordered exactly as the schema templates define them. Missing values are
// emitted as empty strings; for ages this keeps "unresolved" (empty)
// distinguishable from "explicitly coded unknown-age adult" (code 2).
func BuildTables(ds *Dataset) ([]Table, error) {
	builders := map[string]func(*Dataset) []map[string]string{
		schema.TableBrood:      broodRows,
		schema.TableCapture:    captureRows,
		schema.TableIndividual: individualRows,
		schema.TableLocation:   locationRows,
	}

	tables := make([]Table, 0, len(schema.Tables()))
	for _, name := range schema.Tables() {
		columns, err := schema.Columns(name)
		if err != nil {
			return nil, fmt.Errorf("loading template for table %s: %w", name, err)
		}
		rows := builders[name](ds)
		table := Table{Name: name, Columns: columns}
		for _, row := range rows {
			values := make([]string, len(columns))
			for i, col := range columns {
				values[i] = row[col]
			}
			table.Rows = append(table.Rows, values)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func broodRows(ds *Dataset) []map[string]string {
	rows := make([]map[string]string, 0, len(ds.Broods))
	for i := range ds.Broods {
		b := &ds.Broods[i]
		rows = append(rows, map[string]string{
			"BroodID":                b.BroodID,
			"PopID":                  b.PopID,
			"BreedingSeason":         strconv.Itoa(b.BreedingSeason),
			"Species":                b.SpeciesCode,
			"FemaleID":               stringValue(b.FemaleID),
			"MaleID":                 stringValue(b.MaleID),
			"LocationID":             b.LocationID,
			"LayDate_observed":       dateValue(b.LayDate),
			"ClutchSize_observed":    intValue(b.ClutchSize),
			"HatchDate_observed":     dateValue(b.HatchDate),
			"BroodSize_observed":     intValue(b.BroodSize),
			"NumberFledged_observed": intValue(b.NumberFledged),
			"ClutchType_observed":    clutchValue(b.ClutchTypeObserved),
			"ClutchType_calculated":  clutchValue(b.ClutchTypeCalculated),
		})
	}
	return rows
}

func captureRows(ds *Dataset) []map[string]string {
	rows := make([]map[string]string, 0, len(ds.Captures))
	for i := range ds.Captures {
		c := &ds.Captures[i]
		rows = append(rows, map[string]string{
			"CaptureID":      fmt.Sprintf("%s-%07d", ds.PopID, i+1),
			"IndvID":         c.IndividualID,
			"Species":        c.SpeciesCode,
			"BreedingSeason": strconv.Itoa(c.BreedingSeason),
			"CaptureDate":    dateValue(c.CaptureDate),
			"LocationID":     c.LocationID,
			"BroodID":        c.BroodID,
			"Age_observed":   intValue(c.AgeObserved),
			"Age_calculated": intValue(c.AgeCalculated),
		})
	}
	return rows
}

func individualRows(ds *Dataset) []map[string]string {
	rows := make([]map[string]string, 0, len(ds.Individuals))
	for i := range ds.Individuals {
		ind := &ds.Individuals[i]
		rows = append(rows, map[string]string{
			"IndvID":         ind.IndividualID,
			"Species":        ind.SpeciesCode,
			"PopID":          ind.PopID,
			"RingSeason":     strconv.Itoa(ind.RingSeason),
			"RingAge":        ind.RingAge,
			"Sex_calculated": ind.Sex,
			"BroodIDFledged": ind.BroodIDFledged,
		})
	}
	return rows
}

func locationRows(ds *Dataset) []map[string]string {
	rows := make([]map[string]string, 0, len(ds.Locations))
	for i := range ds.Locations {
		loc := &ds.Locations[i]
		rows = append(rows, map[string]string{
			"LocationID":   loc.LocationID,
			"PopID":        loc.PopID,
			"LocationType": loc.LocationType,
			"HabitatType":  loc.HabitatType,
			"Latitude":     floatValue(loc.Latitude),
			"Longitude":    floatValue(loc.Longitude),
			"StartSeason":  strconv.Itoa(loc.StartSeason),
			"EndSeason":    strconv.Itoa(loc.EndSeason),
		})
	}
	return rows
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func dateValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

func clutchValue(ct model.ClutchType) string {
	if ct == "" {
		return string(model.ClutchTypeUnknown)
	}
	return string(ct)
}
