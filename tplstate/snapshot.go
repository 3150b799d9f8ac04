// Package tplstate snapshots the structural state of a template row
// range (values, styles, merged regions, row heights) and replays it
// into an output grid whose column layout may differ from the
// template's.
package tplstate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/soderasen-au/go-common/util"
	"github.com/xuri/excelize/v2"

	"github.com/soderasen-au/go-xltpl/grid"
)

// Block names which structural block of a sheet a snapshot covers.
type Block string

const (
	BlockHeader Block = "header"
	BlockFooter Block = "footer"
)

// Cell is one captured template cell. Style is nil for default-styled
// cells that were captured for their value alone.
type Cell struct {
	Row     int
	Col     int
	Value   string
	Formula string
	Style   *excelize.Style
}

// Snapshot is an immutable structural copy of one template row range.
// It is captured once per {sheet, block} against the pristine template
// and may be replayed any number of times.
type Snapshot struct {
	ID         string
	Sheet      string
	Block      Block
	FirstRow   int
	LastRow    int
	Cells      []Cell
	Merges     []grid.Region
	RowHeights map[int]float64
}

// Capture snapshots rows [firstRow, lastRow] of a template sheet. It
// records every in-range cell with a non-empty value, a formula or a
// non-default style, every merged region intersecting the range, and
// explicit row-height overrides. The source grid is never mutated.
//
// Capture must run before any write to the output document: a reused
// writable template could shift merges and heights under later blocks.
func Capture(g grid.Reader, block Block, firstRow, lastRow int, _logger *zerolog.Logger) (*Snapshot, *util.Result) {
	if firstRow < 1 || lastRow < firstRow {
		return nil, util.MsgError("Capture", fmt.Sprintf("invalid row range [%d, %d]", firstRow, lastRow))
	}
	logger := _logger.With().Str("capture", string(block)).Str("sheet", g.Name()).Logger()

	s := &Snapshot{
		ID:         uuid.NewString(),
		Sheet:      g.Name(),
		Block:      block,
		FirstRow:   firstRow,
		LastRow:    lastRow,
		RowHeights: make(map[int]float64),
	}

	rows, cols := g.Dims()
	last := lastRow
	if last > rows {
		last = rows
	}

	for row := firstRow; row <= last; row++ {
		for col := 1; col <= cols; col++ {
			value := g.Value(row, col)
			formula := g.Formula(row, col)
			style := g.Style(row, col)
			if value == "" && formula == "" && style == nil {
				continue
			}
			s.Cells = append(s.Cells, Cell{Row: row, Col: col, Value: value, Formula: formula, Style: style})
		}
		if h, override := g.RowHeight(row); override {
			s.RowHeights[row] = h
		}
	}

	merges, res := g.MergedRegions()
	if res != nil {
		return nil, res.With("MergedRegions")
	}
	for _, rg := range merges {
		if rg.IntersectsRows(firstRow, last) {
			s.Merges = append(s.Merges, rg)
		}
	}

	logger.Debug().Msgf("captured rows [%d, %d]: %d cells, %d merges, %d row heights",
		firstRow, lastRow, len(s.Cells), len(s.Merges), len(s.RowHeights))
	return s, nil
}
