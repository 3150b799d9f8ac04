package grid

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/soderasen-au/go-common/util"
	"github.com/xuri/excelize/v2"
)

// DefaultRowHeight is excelize's sheet default; a row whose height
// differs from it is treated as an explicit override.
const DefaultRowHeight float64 = 15.0

// TemplateSheet is a read-only view over one sheet of an excelize
// workbook. It never mutates the underlying file, so it can be reused
// across the whole run while the output document is being written.
type TemplateSheet struct {
	f      *excelize.File
	sheet  string
	rows   int
	cols   int
	logger *zerolog.Logger
}

func NewTemplateSheet(f *excelize.File, sheet string, _logger *zerolog.Logger) (*TemplateSheet, *util.Result) {
	if f == nil {
		return nil, util.MsgError("NewTemplateSheet", "nil file")
	}
	ix, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, util.Error("GetSheetIndex", err)
	}
	if ix < 0 {
		return nil, util.MsgError("NewTemplateSheet", "sheet `"+sheet+"` does not exist")
	}

	logger := _logger.With().Str("template", sheet).Logger()
	t := &TemplateSheet{f: f, sheet: sheet, logger: &logger}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, util.Error("GetRows", err)
	}
	t.rows = len(rows)
	for _, r := range rows {
		if len(r) > t.cols {
			t.cols = len(r)
		}
	}

	// GetRows skips cells that carry a style but no value, so the scan
	// under-reports sheets whose trailing cells are styled-only (border
	// boxes around a footer). The dimension ref and the merged regions
	// cover that remainder.
	if ref, err := f.GetSheetDimension(sheet); err == nil {
		if row, col, ok := rangeExtent(ref); ok {
			if row > t.rows {
				t.rows = row
			}
			if col > t.cols {
				t.cols = col
			}
		}
	}
	merges, res := t.MergedRegions()
	if res != nil {
		return nil, res.With("NewTemplateSheet")
	}
	for _, rg := range merges {
		if rg.Bottom > t.rows {
			t.rows = rg.Bottom
		}
		if rg.Right > t.cols {
			t.cols = rg.Right
		}
	}
	t.logger.Debug().Msgf("template sheet dims: %d x %d", t.rows, t.cols)

	return t, nil
}

// rangeExtent resolves the bottom-right coordinates of a range ref such
// as "A1:E5" (or a single-cell ref).
func rangeExtent(ref string) (row, col int, ok bool) {
	if ref == "" {
		return 0, 0, false
	}
	parts := strings.Split(ref, ":")
	c, r, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return 0, 0, false
	}
	return r, c, true
}

func (t *TemplateSheet) Name() string { return t.sheet }

func (t *TemplateSheet) Dims() (int, int) { return t.rows, t.cols }

func (t *TemplateSheet) Value(row, col int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("bad coordinates (%d, %d)", row, col)
		return ""
	}
	v, err := t.f.GetCellValue(t.sheet, cell)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("GetCellValue %s", cell)
		return ""
	}
	return v
}

func (t *TemplateSheet) Formula(row, col int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	fml, err := t.f.GetCellFormula(t.sheet, cell)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("GetCellFormula %s", cell)
		return ""
	}
	return fml
}

// Style returns the resolved cell style, or nil for the default style.
func (t *TemplateSheet) Style(row, col int) *excelize.Style {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil
	}
	styleID, err := t.f.GetCellStyle(t.sheet, cell)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("GetCellStyle %s", cell)
		return nil
	}
	if styleID == 0 {
		return nil
	}
	style, err := t.f.GetStyle(styleID)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("GetStyle %d", styleID)
		return nil
	}
	return style
}

func (t *TemplateSheet) MergedRegions() ([]Region, *util.Result) {
	mcs, err := t.f.GetMergeCells(t.sheet)
	if err != nil {
		return nil, util.Error("GetMergeCells", err)
	}
	regions := make([]Region, 0, len(mcs))
	for _, mc := range mcs {
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, util.Error("CellNameToCoordinates", err)
		}
		c2, r2, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, util.Error("CellNameToCoordinates", err)
		}
		regions = append(regions, Region{Top: r1, Left: c1, Bottom: r2, Right: c2})
	}
	return regions, nil
}

func (t *TemplateSheet) RowHeight(row int) (float64, bool) {
	h, err := t.f.GetRowHeight(t.sheet, row)
	if err != nil {
		t.logger.Debug().Err(err).Msgf("GetRowHeight %d", row)
		return 0, false
	}
	if math.Abs(h-DefaultRowHeight) < 1e-9 {
		return h, false
	}
	return h, true
}

// OutputSheet is a write-only view over one sheet of an excelize
// workbook. Reads go through a TemplateSheet on the same file when a
// caller (usually a test) needs to inspect what was written.
type OutputSheet struct {
	f      *excelize.File
	sheet  string
	logger *zerolog.Logger
}

func NewOutputSheet(f *excelize.File, sheet string, _logger *zerolog.Logger) (*OutputSheet, *util.Result) {
	if f == nil {
		return nil, util.MsgError("NewOutputSheet", "nil file")
	}
	ix, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, util.Error("GetSheetIndex", err)
	}
	if ix < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, util.Error("NewSheet", err)
		}
	}
	logger := _logger.With().Str("output", sheet).Logger()
	return &OutputSheet{f: f, sheet: sheet, logger: &logger}, nil
}

func (o *OutputSheet) Name() string { return o.sheet }

// SetValue writes numeric-looking text as a number and everything else
// as a string, so replayed amounts stay usable in formulas.
func (o *OutputSheet) SetValue(row, col int, value string) *util.Result {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return util.Error("CoordinatesToCellName", err)
	}
	if num, perr := strconv.ParseFloat(strings.TrimSpace(value), 64); perr == nil && strings.TrimSpace(value) != "" {
		if err := o.f.SetCellFloat(o.sheet, cell, num, -1, 64); err != nil {
			return util.Error("SetCellFloat", err)
		}
		return nil
	}
	if err := o.f.SetCellStr(o.sheet, cell, value); err != nil {
		return util.Error("SetCellStr", err)
	}
	return nil
}

func (o *OutputSheet) SetFormula(row, col int, formula string) *util.Result {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return util.Error("CoordinatesToCellName", err)
	}
	if err := o.f.SetCellFormula(o.sheet, cell, formula); err != nil {
		return util.Error("SetCellFormula", err)
	}
	return nil
}

func (o *OutputSheet) SetStyle(row, col int, style *excelize.Style) *util.Result {
	if style == nil {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return util.Error("CoordinatesToCellName", err)
	}
	styleID, err := o.f.NewStyle(style)
	if err != nil {
		return util.Error("NewStyle", err)
	}
	if err := o.f.SetCellStyle(o.sheet, cell, cell, styleID); err != nil {
		return util.Error("SetCellStyle", err)
	}
	return nil
}

func (o *OutputSheet) Merge(rg Region) *util.Result {
	start, err := excelize.CoordinatesToCellName(rg.Left, rg.Top)
	if err != nil {
		return util.Error("CoordinatesToCellName", err)
	}
	end, err := excelize.CoordinatesToCellName(rg.Right, rg.Bottom)
	if err != nil {
		return util.Error("CoordinatesToCellName", err)
	}
	if err := o.f.MergeCell(o.sheet, start, end); err != nil {
		return util.Error("MergeCell", err)
	}
	return nil
}

func (o *OutputSheet) SetRowHeight(row int, height float64) *util.Result {
	if err := o.f.SetRowHeight(o.sheet, row, height); err != nil {
		return util.Error("SetRowHeight", err)
	}
	return nil
}
