package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/nestwatch-go/internal/model"
)

func testDataset() *Dataset {
	lay := time.Date(2023, 2, 9, 0, 0, 0, 0, time.UTC)
	female := "F-001"
	fledged := 4
	age := 5
	lat := 61.25

	return &Dataset{
		PopID: "HAR",
		Broods: []model.BroodRecord{{
			BroodID:              "HAR-2023-NB101",
			PopID:                "HAR",
			BreedingSeason:       2023,
			SpeciesCode:          "PARMAJ",
			FemaleID:             &female,
			LocationID:           "NB101",
			LayDate:              &lay,
			NumberFledged:        &fledged,
			ClutchTypeObserved:   model.ClutchTypeFirst,
			ClutchTypeCalculated: model.ClutchTypeFirst,
		}},
		Captures: []model.CaptureRecord{{
			IndividualID:   "F-001",
			SpeciesCode:    "PARMAJ",
			BreedingSeason: 2023,
			CaptureDate:    &lay,
			LocationID:     "NB101",
			BroodID:        "HAR-2023-NB101",
			AgeObserved:    &age,
			AgeCalculated:  &age,
		}},
		Individuals: []model.IndividualSummary{{
			IndividualID: "F-001",
			SpeciesCode:  "PARMAJ",
			PopID:        "HAR",
			RingSeason:   2023,
			RingAge:      model.RingAgeAdult,
			Sex:          model.SexFemale,
		}},
		Locations: []model.LocationRecord{{
			LocationID:   "NB101",
			PopID:        "HAR",
			LocationType: "NB",
			HabitatType:  "deciduous",
			Latitude:     &lat,
			StartSeason:  2023,
			EndSeason:    2023,
		}},
	}
}

func TestBuildTablesColumnOrder(t *testing.T) {
	tables, err := BuildTables(testDataset())
	require.NoError(t, err)
	require.Len(t, tables, 4)

	brood := tables[0]
	assert.Equal(t, "brood", brood.Name)
	require.NotEmpty(t, brood.Columns)
	assert.Equal(t, "BroodID", brood.Columns[0])
	require.Len(t, brood.Rows, 1)
	require.Len(t, brood.Rows[0], len(brood.Columns))
	assert.Equal(t, "HAR-2023-NB101", brood.Rows[0][0])
}

func TestBuildTablesSentinelValues(t *testing.T) {
	ds := testDataset()
	// Strip the resolved age and the male: both must come out as empty
	// strings, not zeroes.
	ds.Captures[0].AgeObserved = nil
	ds.Captures[0].AgeCalculated = nil
	ds.Broods[0].ClutchTypeCalculated = model.ClutchTypeUnknown

	tables, err := BuildTables(ds)
	require.NoError(t, err)

	capture := tables[1]
	rowByCol := make(map[string]string)
	for i, col := range capture.Columns {
		rowByCol[col] = capture.Rows[0][i]
	}
	assert.Empty(t, rowByCol["Age_observed"])
	assert.Empty(t, rowByCol["Age_calculated"])

	brood := tables[0]
	broodByCol := make(map[string]string)
	for i, col := range brood.Columns {
		broodByCol[col] = brood.Rows[0][i]
	}
	assert.Equal(t, "unknown", broodByCol["ClutchType_calculated"])
	assert.Empty(t, broodByCol["MaleID"])
}

func TestBuildTablesExplicitUnknownAgeDistinct(t *testing.T) {
	ds := testDataset()
	// A capture coded as unknown-age adult (EURING 2) must export "2",
	// never the empty unresolved sentinel.
	coded := 2
	ds.Captures[0].AgeObserved = &coded
	ds.Captures[0].AgeCalculated = &coded

	tables, err := BuildTables(ds)
	require.NoError(t, err)

	capture := tables[1]
	rowByCol := make(map[string]string)
	for i, col := range capture.Columns {
		rowByCol[col] = capture.Rows[0][i]
	}
	assert.Equal(t, "2", rowByCol["Age_observed"])
	assert.Equal(t, "2", rowByCol["Age_calculated"])
}

func TestWriteCSVCreatesFourFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(testDataset(), dir))

	expected := []string{
		"Brood_data_HAR.csv",
		"Capture_data_HAR.csv",
		"Individual_data_HAR.csv",
		"Location_data_HAR.csv",
	}
	for _, name := range expected {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		require.NoError(t, err, "expected output file %s", name)

		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, f.Close())
		require.NoError(t, err)
		// Header plus one data row
		assert.Len(t, records, 2, "file %s", name)
	}
}

func TestWriteSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, WriteSQLite(testDataset(), path))

	// Re-running against the same file must not error, schema is migrated
	// in place.
	require.NoError(t, WriteSQLite(testDataset(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
