// workbook.go xlsx workbook reading
package loader

import (
	"github.com/tphakala/nestwatch-go/internal/errors"
	"github.com/xuri/excelize/v2"
)

// readWorkbook reads all rows of the first sheet of an xlsx workbook.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("loader").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Newf("workbook %s contains no sheets", path).
			Component("loader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	// The raw data always lives on the first sheet
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.New(err).
			Component("loader").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Context("sheet", sheets[0]).
			Build()
	}
	return rows, nil
}
