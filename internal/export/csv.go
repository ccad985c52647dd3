// csv.go CSV file export, one file per output table
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/nestwatch-go/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WriteCSV writes the four output tables as CSV files into dir, one file per
// table named <Table>_data_<PopID>.csv.
func WriteCSV(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}

	tables, err := BuildTables(ds)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryProcessing).
			Build()
	}

	titler := cases.Title(language.English)
	for i := range tables {
		name := fmt.Sprintf("%s_data_%s.csv", titler.String(tables[i].Name), ds.PopID)
		if err := writeTable(&tables[i], filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// writeTable writes one table with its header row.
func writeTable(table *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return writeError(err, path, table.Name)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return writeError(err, path, table.Name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return writeError(err, path, table.Name)
	}
	return f.Sync()
}

func writeError(err error, path, table string) error {
	return errors.New(err).
		Component("export").
		Category(errors.CategoryFileIO).
		Context("path", path).
		Context("table", strings.ToLower(table)).
		Build()
}
