package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

func writeWorkbook(t *testing.T, rows map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, data := range rows {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range data {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}

	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Survey": {
			{"Las Vegas", "Andrew Grimm"},
			{"", "Homo", "sapiens"},
			{"Count = 1"},
		},
	})

	grid, err := ReadGrid(path, Options{})
	require.NoError(t, err)

	want := types.Grid{
		{"Las Vegas", "Andrew Grimm"},
		{"", "Homo", "sapiens"},
		{"Count = 1"},
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXLSX_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Survey": {{"first"}},
	})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Extra", "A1", &[]interface{}{"second", 2}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	grid, err := ReadXLSX(path, "Extra")
	require.NoError(t, err)
	assert.Equal(t, types.Grid{{"second", "2"}}, grid)

	_, err = ReadXLSX(path, "Missing")
	assert.Error(t, err)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "none.xlsx"), "")
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	input := "Las Vegas,\"Andrew Grimm, Jane Citizen\"\n,Homo,sapiens,x\nCount = 1\n,,\n"

	grid, err := ParseCSV(strings.NewReader(input), "")
	require.NoError(t, err)

	want := types.Grid{
		{"Las Vegas", "Andrew Grimm, Jane Citizen"},
		{"", "Homo", "sapiens", "x"},
		{"Count = 1"},
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSV_Windows1252(t *testing.T) {
	// "Ryleigh Pétrie" with é as 0xE9.
	input := []byte("Ryleigh P\xe9trie\n")

	grid, err := ParseCSV(strings.NewReader(string(input)), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "Ryleigh Pétrie", grid[0].Cell(0))
}

func TestParseCSV_UnknownEncoding(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a"), "ebcdic")
	assert.Error(t, err)
}

func TestReadGrid_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\nc\n"), 0644))

	grid, err := ReadGrid(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, types.Grid{{"a", "b"}, {"c"}}, grid)
}

func TestReadGrid_UnsupportedFormats(t *testing.T) {
	for _, name := range []string{"survey.xls", "survey.ods", "survey"} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGrid(name, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.XLSX"))
	assert.True(t, IsSupported("a.csv"))
	assert.False(t, IsSupported("a.xls"))
	assert.False(t, IsSupported("a.txt"))
}
