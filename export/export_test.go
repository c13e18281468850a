package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/intake"
	"github.com/panyam/caresim/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func comparison(t *testing.T) runtime.Comparison {
	t.Helper()
	defer runtime.QuietTest(t)()
	c, err := runtime.RunComparison(core.DefaultParameters())
	require.NoError(t, err)
	return c
}

func TestWriteCSV(t *testing.T) {
	c := comparison(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, c))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 27)
	assert.Equal(t, "baseline_wait_days", records[0][4])
	assert.Equal(t, []string{"0", "150", "12", "12"}, records[1][:4])
	assert.Equal(t, []string{"150", "14", "14"}, records[1][5:8])
	wait, err := strconv.ParseFloat(records[1][4], 64)
	require.NoError(t, err)
	assert.InDelta(t, 131.25, wait, 1e-9)
	assert.Equal(t, "225", records[26][1])
	assert.Equal(t, "175", records[26][5])
}

func TestWorkbook(t *testing.T) {
	c := comparison(t)
	f, err := Workbook(c, nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetParameters, SheetPeriods}, f.GetSheetList())

	summary, err := f.GetCellValue(SheetParameters, "B2")
	require.NoError(t, err)
	assert.Equal(t, c.Parameters.Summary(), summary)

	rows, err := f.GetRows(SheetPeriods)
	require.NoError(t, err)
	assert.Len(t, rows, 27)
	assert.Equal(t, "intervention_queue", rows[0][5])

	direction, err := f.GetCellValue(SheetParameters, "E12")
	require.NoError(t, err)
	assert.Equal(t, string(runtime.Improvement), direction)
}

func TestWorkbook_WithHistory(t *testing.T) {
	c := comparison(t)
	h, err := intake.ReadCSV(strings.NewReader("date,arrivals,wait\n2024-01-01,12,28\n2024-01-08,14,30\n"))
	require.NoError(t, err)
	require.NoError(t, h.WithForecast(intake.NewMovingAverage(2), 2))

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, c, h))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), SheetHistory)

	rows, err := f.GetRows(SheetHistory)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"2024-01-01", "12", "28"}, rows[1])
	assert.Equal(t, "+1", rows[3][0])
	assert.Equal(t, "13", rows[3][3])
}
