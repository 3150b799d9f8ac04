package header_test

import (
	"testing"

	"github.com/soderasen-au/go-common/loggers"
	"github.com/xuri/excelize/v2"

	"github.com/soderasen-au/go-xltpl/grid"
)

// sheetBuilder assembles in-memory workbooks for heuristic tests.
type sheetBuilder struct {
	t     *testing.T
	f     *excelize.File
	sheet string
	bold  int
}

func newSheetBuilder(t *testing.T, sheet string) *sheetBuilder {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	return &sheetBuilder{t: t, f: f, sheet: sheet, bold: boldID}
}

func (b *sheetBuilder) set(row, col int, value string) *sheetBuilder {
	b.t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.t.Fatalf("CoordinatesToCellName: %v", err)
	}
	if err := b.f.SetCellStr(b.sheet, cell, value); err != nil {
		b.t.Fatalf("SetCellStr: %v", err)
	}
	return b
}

func (b *sheetBuilder) setBold(row, col int, value string) *sheetBuilder {
	b.t.Helper()
	b.set(row, col, value)
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if err := b.f.SetCellStyle(b.sheet, cell, cell, b.bold); err != nil {
		b.t.Fatalf("SetCellStyle: %v", err)
	}
	return b
}

// setRow writes one full row; bold applies to every non-empty cell.
func (b *sheetBuilder) setRow(row int, bold bool, values ...string) *sheetBuilder {
	b.t.Helper()
	for i, v := range values {
		if v == "" {
			continue
		}
		if bold {
			b.setBold(row, i+1, v)
		} else {
			b.set(row, i+1, v)
		}
	}
	return b
}

func (b *sheetBuilder) reader() grid.Reader {
	b.t.Helper()
	ts, res := grid.NewTemplateSheet(b.f, b.sheet, loggers.NullLogger)
	if res != nil {
		b.t.Fatalf("NewTemplateSheet: %v", res)
	}
	return ts
}
