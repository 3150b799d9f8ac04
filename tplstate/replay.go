package tplstate

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/soderasen-au/go-common/util"

	"github.com/soderasen-au/go-xltpl/grid"
	"github.com/soderasen-au/go-xltpl/remap"
)

// Replay writes a snapshot into the target grid starting at targetFirst
// (the captured range shifted by targetFirst-s.FirstRow). Columns are
// resolved through the mapper; cells on removed columns are skipped,
// merges are clipped to the surviving column span, and anything landing
// beyond outputCols is dropped silently: templates routinely
// over-declare structure, so a structural mismatch is never an error.
//
// Replay is idempotent: re-running it against the same target range
// yields identical final contents.
func Replay(s *Snapshot, out grid.Writer, targetFirst int, m *remap.Mapper, outputCols int, _logger *zerolog.Logger) *util.Result {
	if s == nil {
		return util.MsgError("Replay", "nil snapshot")
	}
	if m == nil {
		return util.MsgError("Replay", "nil column mapper")
	}
	if targetFirst < 1 {
		return util.MsgError("Replay", fmt.Sprintf("invalid target start row: %d", targetFirst))
	}
	if outputCols <= 0 {
		outputCols = m.OutputCols()
	}
	logger := _logger.With().Str("replay", string(s.Block)).Str("sheet", out.Name()).Str("snapshot", s.ID).Logger()

	offset := targetFirst - s.FirstRow

	for _, c := range s.Cells {
		outCol, kept := m.Map(c.Col).OutputCol()
		if !kept {
			continue
		}
		if outCol > outputCols {
			logger.Debug().Msgf("cell (%d, %d) maps beyond output width %d, dropped", c.Row, c.Col, outputCols)
			continue
		}
		row := c.Row + offset

		if c.Formula != "" {
			if res := out.SetFormula(row, outCol, c.Formula); res != nil {
				return res.With("SetFormula")
			}
		} else if c.Value != "" {
			if res := out.SetValue(row, outCol, c.Value); res != nil {
				return res.With("SetValue")
			}
		}
		if c.Style != nil {
			if res := out.SetStyle(row, outCol, c.Style); res != nil {
				return res.With("SetStyle")
			}
		}
	}

	for _, rg := range s.Merges {
		clipped, ok := clipMerge(rg, m, outputCols)
		if !ok {
			logger.Debug().Msgf("merge (%d,%d)-(%d,%d) has no surviving span, dropped", rg.Top, rg.Left, rg.Bottom, rg.Right)
			continue
		}
		clipped.Top += offset
		clipped.Bottom += offset
		if clipped.Top < 1 {
			clipped.Top = 1
		}
		if res := out.Merge(clipped); res != nil {
			return res.With("Merge")
		}
	}

	for row, h := range s.RowHeights {
		if res := out.SetRowHeight(row+offset, h); res != nil {
			return res.With("SetRowHeight")
		}
	}

	return nil
}

// clipMerge shrinks a captured merge to the largest contiguous span of
// kept, in-bounds output columns. Order preservation in the mapper
// guarantees the kept columns of a template interval land on a
// contiguous output interval, so [min kept, max kept] is that span.
// Merges collapsing to a single cell are dropped: a 1x1 merge is a
// no-op.
func clipMerge(rg grid.Region, m *remap.Mapper, outputCols int) (grid.Region, bool) {
	minOut, maxOut := 0, 0
	for col := rg.Left; col <= rg.Right; col++ {
		out, kept := m.Map(col).OutputCol()
		if !kept || out > outputCols {
			continue
		}
		if minOut == 0 || out < minOut {
			minOut = out
		}
		if out > maxOut {
			maxOut = out
		}
	}
	if minOut == 0 {
		return grid.Region{}, false
	}

	clipped := grid.Region{Top: rg.Top, Left: minOut, Bottom: rg.Bottom, Right: maxOut}
	if clipped.Width() == 1 && clipped.Height() == 1 {
		return grid.Region{}, false
	}
	return clipped, true
}
