package form

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// TrackerEntry is one row of the batch tracker workbook: a single
// application to run, pointing at its form descriptor on disk.
type TrackerEntry struct {
	Company  string
	Role     string
	FormPath string
	Status   string
	Row      int // 1-based sheet row, for operator-facing logs
}

// Pending reports whether the entry still needs a run. Anything an
// operator wrote other than blank or "pending" marks the row handled.
func (e TrackerEntry) Pending() bool {
	switch strings.ToLower(strings.TrimSpace(e.Status)) {
	case "", "pending":
		return true
	}
	return false
}

// TrackerOptions configures tracker workbook parsing.
type TrackerOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadTracker loads the batch tracker workbook. Column positions are
// resolved from the header row by name, so operators can reorder or add
// columns without breaking runs. Blank spacer rows are skipped.
func ReadTracker(path string, opts TrackerOptions) ([]TrackerEntry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "tracker: open workbook")
	}

	sheet, err := trackerSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("tracker: sheet has no header row")
	}

	cols, err := resolveColumns(rowToCells(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	var entries []TrackerEntry
	for i, row := range sheet.Rows[1:] {
		cells := rowToCells(row)
		entry := TrackerEntry{
			Company:  cols.cell(cells, cols.company),
			Role:     cols.cell(cells, cols.role),
			FormPath: cols.cell(cells, cols.form),
			Status:   cols.cell(cells, cols.status),
			Row:      i + 2,
		}
		if entry.Company == "" && entry.Role == "" && entry.FormPath == "" {
			continue
		}
		if entry.FormPath == "" {
			return nil, eris.Errorf("tracker: row %d has no form path", entry.Row)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Pending filters entries down to the ones that still need a run,
// preserving sheet order.
func Pending(entries []TrackerEntry) []TrackerEntry {
	var out []TrackerEntry
	for _, e := range entries {
		if e.Pending() {
			out = append(out, e)
		}
	}
	return out
}

type trackerColumns struct {
	company int
	role    int
	form    int
	status  int
}

func (c trackerColumns) cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// headerAliases maps accepted header spellings to canonical columns.
var headerAliases = map[string]string{
	"company":    "company",
	"employer":   "company",
	"role":       "role",
	"position":   "role",
	"title":      "role",
	"job title":  "role",
	"form":       "form",
	"form path":  "form",
	"form file":  "form",
	"descriptor": "form",
	"status":     "status",
	"state":      "status",
}

func resolveColumns(header []string) (trackerColumns, error) {
	cols := trackerColumns{company: -1, role: -1, form: -1, status: -1}
	for i, raw := range header {
		name := normalizeHeader(raw)
		switch headerAliases[name] {
		case "company":
			cols.company = i
		case "role":
			cols.role = i
		case "form":
			cols.form = i
		case "status":
			cols.status = i
		}
	}
	if cols.form < 0 {
		return cols, eris.Errorf("tracker: no form column in header %v", header)
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

func trackerSheet(f *xlsx.File, opts TrackerOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("tracker: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("tracker: sheet index %d out of range (workbook has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToCells(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
