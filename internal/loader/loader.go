// Package loader reads the raw breeding workbook and normalizes it into
// typed brood rows. Input shape problems (missing file, missing columns) are
// fatal; per-record problems degrade to nil fields so malformed rows stay
// visible in the output for manual review instead of being dropped.
package loader

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tphakala/nestwatch-go/internal/conf"
	"github.com/tphakala/nestwatch-go/internal/errors"
)

// MaxChickColumns is the number of positional chick identifier columns in
// the raw workbook.
const MaxChickColumns = 13

// expectedColumns is the fixed column set the raw input must carry. Chick
// columns are appended programmatically.
var expectedColumns = []string{
	"Year",
	"Species",
	"NestID",
	"Plot",
	"Habitat",
	"Lat",
	"Long",
	"LayDate",
	"ClutchSize",
	"HatchDate",
	"BroodSize",
	"Fledged",
	"Class",
	"FemaleRing",
	"FemaleAge",
	"MaleRing",
	"MaleAge",
}

// Row is one raw nesting attempt with fields parsed but not yet mapped to
// the output schema. Missing or unparseable values are nil.
type Row struct {
	Line       int // source row number, for log messages
	Year       int
	SpeciesRaw string
	NestID     string
	Plot       string
	Habitat    string
	Latitude   *float64
	Longitude  *float64
	LayDOY     *int // lay date as day of year
	ClutchSize *int
	HatchDOY   *int // hatch date as day of year
	BroodSize  *int
	Fledged    *int
	ClassCode  *int // observed clutch class {1,2,3}
	FemaleRing string
	FemaleAge  *int
	MaleRing   string
	MaleAge    *int
	ChickRings []string // narrow form of chick1..chick13
}

// Load reads the configured input file and returns its rows. The reader is
// picked by file extension: .xlsx goes through the workbook reader,
// everything else through the delimited text reader.
func Load(settings *conf.Settings) ([]Row, error) {
	path := filepath.Join(settings.Input.Source, settings.Input.File)

	var cells [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		cells, err = readWorkbook(path)
	} else {
		cells, err = readDelimited(path, settings.Input.Charset)
	}
	if err != nil {
		return nil, err
	}

	if len(cells) == 0 {
		return nil, errors.Newf("input file %s contains no rows", path).
			Component("loader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	index, err := indexColumns(cells[0], path)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, record := range cells[1:] {
		rows = append(rows, parseRow(record, index, i+2))
	}
	return rows, nil
}

// indexColumns validates the header against the expected column set and
// returns a name to position index. Missing columns are fatal.
func indexColumns(header []string, path string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range expectedColumns {
		if _, ok := index[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	for i := 1; i <= MaxChickColumns; i++ {
		name := "chick" + strconv.Itoa(i)
		if _, ok := index[name]; !ok {
			missing = append(missing, "Chick"+strconv.Itoa(i))
		}
	}
	if len(missing) > 0 {
		return nil, errors.Newf("input file is missing expected columns: %s", strings.Join(missing, ", ")).
			Component("loader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Context("missing_count", len(missing)).
			Build()
	}
	return index, nil
}

// parseRow maps one raw record into a Row. Unparseable values become nil,
// never an error.
func parseRow(record []string, index map[string]int, line int) Row {
	get := func(name string) string {
		i, ok := index[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{
		Line:       line,
		SpeciesRaw: get("Species"),
		NestID:     get("NestID"),
		Plot:       get("Plot"),
		Habitat:    get("Habitat"),
		FemaleRing: get("FemaleRing"),
		MaleRing:   get("MaleRing"),
	}

	if year := parseInt(get("Year")); year != nil {
		row.Year = *year
	}
	row.Latitude = parseFloat(get("Lat"))
	row.Longitude = parseFloat(get("Long"))
	row.LayDOY = parseInt(get("LayDate"))
	row.ClutchSize = parseInt(get("ClutchSize"))
	row.HatchDOY = parseInt(get("HatchDate"))
	row.BroodSize = parseInt(get("BroodSize"))
	row.Fledged = parseInt(get("Fledged"))
	row.ClassCode = parseInt(get("Class"))
	row.FemaleAge = parseInt(get("FemaleAge"))
	row.MaleAge = parseInt(get("MaleAge"))

	for i := 1; i <= MaxChickColumns; i++ {
		if ring := get("Chick" + strconv.Itoa(i)); ring != "" {
			row.ChickRings = append(row.ChickRings, ring)
		}
	}

	return row
}

// parseInt parses a whole number, tolerating values exported with a decimal
// point. Empty and NA values are nil.
func parseInt(s string) *int {
	if isMissing(s) {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	// Spreadsheet exports often render integers as "6.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int(f)
		return &v
	}
	return nil
}

func parseFloat(s string) *float64 {
	if isMissing(s) {
		return nil
	}
	// Legacy exports use comma decimal separators
	s = strings.ReplaceAll(s, ",", ".")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}

// isMissing reports whether a raw cell value represents a missing
// observation.
func isMissing(s string) bool {
	switch strings.ToUpper(s) {
	case "", "NA", "N/A", "NULL", "-":
		return true
	}
	return false
}
