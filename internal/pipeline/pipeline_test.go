package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/nestwatch-go/internal/conf"
	"github.com/tphakala/nestwatch-go/internal/model"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// lumberjack keeps its rotation goroutine alive after Close
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

// rawHeader is the full expected header of the raw workbook export.
func rawHeader() string {
	cols := []string{
		"Year", "Species", "NestID", "Plot", "Habitat", "Lat", "Long",
		"LayDate", "ClutchSize", "HatchDate", "BroodSize", "Fledged", "Class",
		"FemaleRing", "FemaleAge", "MaleRing", "MaleAge",
	}
	for i := 1; i <= 13; i++ {
		cols = append(cols, fmt.Sprintf("Chick%d", i))
	}
	return strings.Join(cols, ",")
}

func testSettings(t *testing.T, lines ...string) *conf.Settings {
	t.Helper()
	dir := t.TempDir()
	content := strings.Join(append([]string{rawHeader()}, lines...), "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "breeding.csv"), []byte(content), 0o644))

	return &conf.Settings{
		Main: conf.MainSettings{Name: "HAR"},
		Input: conf.InputSettings{
			Source:  dir,
			File:    "breeding.csv",
			Charset: "utf-8",
		},
		Clutch: conf.ClutchSettings{MaxRenestDays: 30},
		Output: conf.OutputSettings{Mode: conf.OutputModeMemory},
	}
}

func broodByID(t *testing.T, result *Result, broodID string) *model.BroodRecord {
	t.Helper()
	for i := range result.Dataset.Broods {
		if result.Dataset.Broods[i].BroodID == broodID {
			return &result.Dataset.Broods[i]
		}
	}
	t.Fatalf("brood %s not found", broodID)
	return nil
}

func TestRunFailedFirstThenReplacement(t *testing.T) {
	// A female loses her first clutch on lay day 10 and renests on day 25,
	// within the 30 day window.
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,0,,F-001,5,M-001,4,,,,,,,,,,,,,",
		"2023,Great Tit,NB102,A,deciduous,61.25,22.16,25,5,,,4,,F-001,5,M-001,4,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	first := broodByID(t, result, "HAR-2023-NB101")
	second := broodByID(t, result, "HAR-2023-NB102")
	assert.Equal(t, model.ClutchTypeFirst, first.ClutchTypeCalculated)
	assert.Equal(t, model.ClutchTypeReplacement, second.ClutchTypeCalculated)
}

func TestRunLateSecondBroodIsUnknown(t *testing.T) {
	// Successful first clutch on day 10, next brood on day 100: the 90 day
	// gap exceeds the renest interval.
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,F-001,5,,,,,,,,,,,,,,,",
		"2023,Great Tit,NB102,A,deciduous,61.25,22.16,100,5,,,3,,F-001,5,,,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	assert.Equal(t, model.ClutchTypeFirst, broodByID(t, result, "HAR-2023-NB101").ClutchTypeCalculated)
	assert.Equal(t, model.ClutchTypeUnknown, broodByID(t, result, "HAR-2023-NB102").ClutchTypeCalculated)
	assert.Equal(t, 1, result.Audit.ClutchTypeUnknown)
}

func TestRunChickCaptureDateOffset(t *testing.T) {
	// Lay day 40 with clutch size 6: chick proxy capture day is
	// 40 + 6 + 27 = 73.
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,40,6,55,5,4,1,F-001,5,M-001,4,C1,C2,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	var chick *model.CaptureRecord
	for i := range result.Dataset.Captures {
		if result.Dataset.Captures[i].IndividualID == "C1" {
			chick = &result.Dataset.Captures[i]
		}
	}
	require.NotNil(t, chick)
	require.NotNil(t, chick.CaptureDate)
	assert.Equal(t, 73, chick.CaptureDate.YearDay())
	assert.True(t, chick.Chick)
}

func TestRunAgeResolutionAcrossSeasons(t *testing.T) {
	// C1 is ringed as a nestling in 2022 and returns as a breeding female
	// in 2023: pullus in the ring year, second-year the season after.
	settings := testSettings(t,
		"2022,Great Tit,NB101,A,deciduous,61.25,22.15,40,6,55,5,4,1,F-001,5,M-001,4,C1,,,,,,,,,,,,",
		"2023,Great Tit,NB102,A,deciduous,61.25,22.16,42,7,,,5,1,C1,,M-002,4,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	var ages []int
	for i := range result.Dataset.Captures {
		c := &result.Dataset.Captures[i]
		if c.IndividualID == "C1" {
			require.NotNil(t, c.AgeCalculated)
			ages = append(ages, *c.AgeCalculated)
		}
	}
	require.Len(t, ages, 2)
	assert.Contains(t, ages, 1)
	assert.Contains(t, ages, 5)
}

func TestRunIndividualSummaries(t *testing.T) {
	settings := testSettings(t,
		"2022,Great Tit,NB101,A,deciduous,61.25,22.15,40,6,55,5,4,1,F-001,5,M-001,4,C1,,,,,,,,,,,,",
		"2023,Great Tit,NB102,A,deciduous,61.25,22.16,42,7,,,5,1,C1,,M-002,4,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	byID := make(map[string]model.IndividualSummary)
	for _, ind := range result.Dataset.Individuals {
		byID[ind.IndividualID] = ind
	}

	c1, ok := byID["C1"]
	require.True(t, ok)
	assert.Equal(t, model.RingAgeChick, c1.RingAge)
	assert.Equal(t, 2022, c1.RingSeason)
	assert.Equal(t, "HAR-2022-NB101", c1.BroodIDFledged)
	assert.Equal(t, model.SexFemale, c1.Sex)

	m1, ok := byID["M-001"]
	require.True(t, ok)
	assert.Equal(t, model.SexMale, m1.Sex)
	assert.Equal(t, model.RingAgeAdult, m1.RingAge)
	assert.Empty(t, m1.BroodIDFledged)
}

func TestRunConflictedSexCode(t *testing.T) {
	// The same ring appears as mother of one nest and father of another, a
	// known upstream data quality issue that is passed through as code C.
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,X-001,5,M-001,4,,,,,,,,,,,,,",
		"2023,Great Tit,NB102,A,deciduous,61.25,22.16,12,6,,,5,,F-002,5,X-001,4,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	var conflicted *model.IndividualSummary
	for i := range result.Dataset.Individuals {
		if result.Dataset.Individuals[i].IndividualID == "X-001" {
			conflicted = &result.Dataset.Individuals[i]
		}
	}
	require.NotNil(t, conflicted)
	assert.Equal(t, model.SexConflicted, conflicted.Sex)
	assert.Equal(t, 1, result.Audit.SexConflicts)
}

func TestRunLocationsFirstSeenCoordinates(t *testing.T) {
	settings := testSettings(t,
		"2022,Great Tit,NB101,A,deciduous,61.25,22.15,40,6,,,4,,F-001,5,,,,,,,,,,,,,,,",
		"2023,Great Tit,NB101,A,mixed,61.30,22.20,41,6,,,4,,F-002,5,,,,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	require.Len(t, result.Dataset.Locations, 1)
	loc := result.Dataset.Locations[0]
	assert.Equal(t, "NB101", loc.LocationID)
	// First-seen habitat and coordinates win
	assert.Equal(t, "deciduous", loc.HabitatType)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, 61.25, *loc.Latitude, 1e-9)
	assert.Equal(t, 2022, loc.StartSeason)
	assert.Equal(t, 2023, loc.EndSeason)
}

func TestRunUnknownSpeciesFilterIsFatal(t *testing.T) {
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,F-001,5,,,,,,,,,,,,,,,",
	)
	settings.Species = []string{"NOSUCH"}
	_, err := Run(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown species code")
}

func TestRunMemoryModeReturnsTables(t *testing.T) {
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,F-001,5,M-001,4,C1,,,,,,,,,,,,",
	)
	result, err := Run(settings)
	require.NoError(t, err)

	require.Len(t, result.Tables, 4)
	names := []string{"brood", "capture", "individual", "location"}
	for i, table := range result.Tables {
		assert.Equal(t, names[i], table.Name)
		assert.NotEmpty(t, table.Columns)
	}
	// One brood row, three captures (female, male, one chick)
	assert.Len(t, result.Tables[0].Rows, 1)
	assert.Len(t, result.Tables[1].Rows, 3)
	assert.NotEmpty(t, result.RunID)
}

func TestRunWritesRunLogFile(t *testing.T) {
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,F-001,5,,,,,,,,,,,,,,,",
	)
	logPath := filepath.Join(t.TempDir(), "logs", "run.log")
	settings.Main.Log = conf.LogConfig{
		Enabled:  true,
		Path:     logPath,
		Rotation: conf.RotationSize,
		MaxSize:  1 << 20,
	}

	result, err := Run(settings)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "run complete")
	assert.Contains(t, content, result.RunID)
	assert.Contains(t, content, `"service":"pipeline"`)
}

func TestRunCSVModeWritesFiles(t *testing.T) {
	settings := testSettings(t,
		"2023,Great Tit,NB101,A,deciduous,61.25,22.15,10,6,,,5,,F-001,5,,,,,,,,,,,,,,,",
	)
	outDir := t.TempDir()
	settings.Output = conf.OutputSettings{Mode: conf.OutputModeCSV, Path: outDir}

	_, err := Run(settings)
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
