// delimited.go delimited text reading with legacy charset support
package loader

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/tphakala/nestwatch-go/internal/errors"
	"golang.org/x/text/encoding/charmap"
)

// readDelimited reads all records of a delimited text file. Legacy exports
// from the institution's old database are Windows-1252 encoded, configured
// via input.charset.
func readDelimited(path, charset string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("loader").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	var reader io.Reader = f
	if charset == "windows-1252" {
		reader = charmap.Windows1252.NewDecoder().Reader(f)
	}

	cr := csv.NewReader(reader)
	cr.Comma = detectSeparator(path)
	// Rows with trailing empty chick columns are shorter than the header
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.New(err).
			Component("loader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return records, nil
}

// detectSeparator picks the field separator by extension, semicolon for the
// institution's .scsv exports and comma otherwise.
func detectSeparator(path string) rune {
	if len(path) > 5 && path[len(path)-5:] == ".scsv" {
		return ';'
	}
	return ','
}
