// Package grid provides 1-based, sheet-scoped views over spreadsheet
// documents. A template is always opened through a read-only handle and
// the output document through a write-only handle, so template mutation
// is a compile-time impossibility rather than a convention.
package grid

import (
	"github.com/soderasen-au/go-common/util"
	"github.com/xuri/excelize/v2"
)

// Region is an inclusive rectangle of merged cells, 1-based.
type Region struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Right  int `json:"right" yaml:"right"`
}

func (rg Region) Width() int {
	return rg.Right - rg.Left + 1
}

func (rg Region) Height() int {
	return rg.Bottom - rg.Top + 1
}

// IntersectsRows reports whether the region touches any row in [first, last].
func (rg Region) IntersectsRows(first, last int) bool {
	return rg.Top <= last && rg.Bottom >= first
}

// Reader is the read side of a sheet. Cell reads on invalid coordinates
// yield zero values; structural reads report failures.
type Reader interface {
	Name() string
	Dims() (rows, cols int)
	Value(row, col int) string
	Formula(row, col int) string
	Style(row, col int) *excelize.Style
	MergedRegions() ([]Region, *util.Result)
	RowHeight(row int) (float64, bool)
}

// Writer is the write side of a sheet. It deliberately offers no reads:
// the active pass owns the output exclusively and replays/writes only.
type Writer interface {
	Name() string
	SetValue(row, col int, value string) *util.Result
	SetFormula(row, col int, formula string) *util.Result
	SetStyle(row, col int, style *excelize.Style) *util.Result
	Merge(rg Region) *util.Result
	SetRowHeight(row int, height float64) *util.Result
}
