package tplstate_test

import (
	"testing"

	"github.com/soderasen-au/go-common/loggers"
	"github.com/xuri/excelize/v2"

	"github.com/soderasen-au/go-xltpl/grid"
)

type tplBuilder struct {
	t     *testing.T
	f     *excelize.File
	sheet string
	bold  int
}

func newTplBuilder(t *testing.T, sheet string) *tplBuilder {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	return &tplBuilder{t: t, f: f, sheet: sheet, bold: bold}
}

func (b *tplBuilder) cellName(row, col int) string {
	b.t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.t.Fatalf("CoordinatesToCellName(%d, %d): %v", col, row, err)
	}
	return cell
}

func (b *tplBuilder) set(row, col int, value string) {
	b.t.Helper()
	if err := b.f.SetCellStr(b.sheet, b.cellName(row, col), value); err != nil {
		b.t.Fatalf("SetCellStr: %v", err)
	}
}

func (b *tplBuilder) setBold(row, col int, value string) {
	b.t.Helper()
	b.set(row, col, value)
	cell := b.cellName(row, col)
	if err := b.f.SetCellStyle(b.sheet, cell, cell, b.bold); err != nil {
		b.t.Fatalf("SetCellStyle: %v", err)
	}
}

// styleCell styles a cell without giving it a value.
func (b *tplBuilder) styleCell(row, col int) {
	b.t.Helper()
	cell := b.cellName(row, col)
	if err := b.f.SetCellStyle(b.sheet, cell, cell, b.bold); err != nil {
		b.t.Fatalf("SetCellStyle: %v", err)
	}
}

// setDimension declares the used range the way spreadsheet applications
// record it when saving a workbook.
func (b *tplBuilder) setDimension(ref string) {
	b.t.Helper()
	if err := b.f.SetSheetDimension(b.sheet, ref); err != nil {
		b.t.Fatalf("SetSheetDimension: %v", err)
	}
}

func (b *tplBuilder) setFormula(row, col int, formula string) {
	b.t.Helper()
	if err := b.f.SetCellFormula(b.sheet, b.cellName(row, col), formula); err != nil {
		b.t.Fatalf("SetCellFormula: %v", err)
	}
}

func (b *tplBuilder) merge(top, left, bottom, right int) {
	b.t.Helper()
	if err := b.f.MergeCell(b.sheet, b.cellName(top, left), b.cellName(bottom, right)); err != nil {
		b.t.Fatalf("MergeCell: %v", err)
	}
}

func (b *tplBuilder) setRowHeight(row int, height float64) {
	b.t.Helper()
	if err := b.f.SetRowHeight(b.sheet, row, height); err != nil {
		b.t.Fatalf("SetRowHeight: %v", err)
	}
}

func (b *tplBuilder) reader() grid.Reader {
	b.t.Helper()
	r, res := grid.NewTemplateSheet(b.f, b.sheet, loggers.NullLogger)
	if res != nil {
		b.t.Fatalf("NewTemplateSheet: %s", res.Error())
	}
	return r
}

// outputPair returns a writer over a fresh workbook and a function that
// builds a reader over the same sheet once writing is done.
func outputPair(t *testing.T, sheet string) (grid.Writer, func() grid.Reader) {
	t.Helper()
	f := excelize.NewFile()
	w, res := grid.NewOutputSheet(f, sheet, loggers.NullLogger)
	if res != nil {
		t.Fatalf("NewOutputSheet: %s", res.Error())
	}
	return w, func() grid.Reader {
		r, res := grid.NewTemplateSheet(f, sheet, loggers.NullLogger)
		if res != nil {
			t.Fatalf("NewTemplateSheet over output: %s", res.Error())
		}
		return r
	}
}
