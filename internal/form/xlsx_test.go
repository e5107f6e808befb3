package form

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTrackerXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	err := f.Save(path)
	require.NoError(t, err)
	return path
}

func TestReadTracker_Basic(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Applications": {
			{"Company", "Role", "Form", "Status"},
			{"Veridian Dynamics", "SWE II", "forms/veridian.json", ""},
			{"Initech", "Backend Engineer", "forms/initech.json", "submitted"},
		},
	})

	entries, err := ReadTracker(path, TrackerOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Veridian Dynamics", entries[0].Company)
	assert.Equal(t, "SWE II", entries[0].Role)
	assert.Equal(t, "forms/veridian.json", entries[0].FormPath)
	assert.Equal(t, 2, entries[0].Row)
	assert.True(t, entries[0].Pending())

	assert.Equal(t, "submitted", entries[1].Status)
	assert.Equal(t, 3, entries[1].Row)
	assert.False(t, entries[1].Pending())
}

func TestReadTracker_HeaderAliases(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Employer", "Position", "Form Path", "State"},
			{"Acme", "Platform Engineer", "forms/acme.json", "pending"},
		},
	})

	entries, err := ReadTracker(path, TrackerOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Company)
	assert.Equal(t, "Platform Engineer", entries[0].Role)
	assert.Equal(t, "forms/acme.json", entries[0].FormPath)
	assert.Equal(t, "pending", entries[0].Status)
}

func TestReadTracker_ReorderedColumns(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Status", "Form", "Notes", "Company"},
			{"done", "forms/a.json", "reached out on LinkedIn", "Acme"},
		},
	})

	entries, err := ReadTracker(path, TrackerOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Company)
	assert.Equal(t, "forms/a.json", entries[0].FormPath)
	assert.Equal(t, "done", entries[0].Status)
	assert.Empty(t, entries[0].Role)
}

func TestReadTracker_SkipsBlankRows(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Company", "Role", "Form", "Status"},
			{"Acme", "SWE", "forms/a.json", ""},
			{"", "", "", ""},
			{"Initech", "SRE", "forms/b.json", ""},
		},
	})

	entries, err := ReadTracker(path, TrackerOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Row)
	assert.Equal(t, 4, entries[1].Row)
}

func TestReadTracker_MissingFormColumn(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Company", "Role", "Status"},
			{"Acme", "SWE", ""},
		},
	})

	_, err := ReadTracker(path, TrackerOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no form column")
}

func TestReadTracker_RowMissingFormPath(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Company", "Role", "Form", "Status"},
			{"Acme", "SWE", "forms/a.json", ""},
			{"Initech", "SRE", "", ""},
		},
	})

	_, err := ReadTracker(path, TrackerOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3 has no form path")
}

func TestReadTracker_HeaderOnly(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Company", "Role", "Form", "Status"},
		},
	})

	entries, err := ReadTracker(path, TrackerOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadTracker_EmptySheet(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {},
	})

	_, err := ReadTracker(path, TrackerOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadTracker_SheetName(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Archive": {{"Company", "Form"}, {"Old Corp", "forms/old.json"}},
		"Active":  {{"Company", "Form"}, {"Acme", "forms/a.json"}},
	})

	entries, err := ReadTracker(path, TrackerOptions{SheetName: "Active"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme", entries[0].Company)
}

func TestReadTracker_SheetNameNotFound(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {{"Company", "Form"}},
	})

	_, err := ReadTracker(path, TrackerOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadTracker_SheetIndexOutOfRange(t *testing.T) {
	path := createTrackerXLSX(t, map[string][][]string{
		"Sheet1": {{"Company", "Form"}},
	})

	_, err := ReadTracker(path, TrackerOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestPending_Filter(t *testing.T) {
	entries := []TrackerEntry{
		{FormPath: "a.json", Status: ""},
		{FormPath: "b.json", Status: "pending"},
		{FormPath: "c.json", Status: " Pending "},
		{FormPath: "d.json", Status: "submitted"},
		{FormPath: "e.json", Status: "skip"},
	}

	pending := Pending(entries)
	require.Len(t, pending, 3)
	assert.Equal(t, "a.json", pending[0].FormPath)
	assert.Equal(t, "b.json", pending[1].FormPath)
	assert.Equal(t, "c.json", pending[2].FormPath)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Company", "company"},
		{"  Form Path  ", "form path"},
		{"form_path", "form path"},
		{"JOB   TITLE", "job title"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeader(tt.in), "input %q", tt.in)
	}
}
