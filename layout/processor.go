// Package layout drives one full structural pass over a sheet: locate
// the header, extract labeled positions, capture the template's header
// and footer blocks, replay the header, hand off to the external
// data-row writer, then replay the footer below the written rows.
package layout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/soderasen-au/go-common/util"

	"github.com/soderasen-au/go-xltpl/grid"
	"github.com/soderasen-au/go-xltpl/header"
	"github.com/soderasen-au/go-xltpl/remap"
	"github.com/soderasen-au/go-xltpl/tplstate"
)

// State tracks the per-sheet pass through its fixed transitions.
type State string

const (
	StateLocated          State = "Located"
	StateSingleHeader     State = "SingleHeader"
	StateDoubleHeader     State = "DoubleHeaderDecided"
	StateExtracted        State = "Extracted"
	StateQuantityEnhanced State = "QuantityEnhanced"
	StateCapturedHeader   State = "CapturedHeader"
	StateCapturedFooter   State = "CapturedFooter"
	StateReplayedHeader   State = "ReplayedHeader"
	StateDataRowsWritten  State = "DataRowsWritten"
	StateReplayedFooter   State = "ReplayedFooter"
	StateCompleted        State = "Completed"
	StateFailedNotFound   State = "FailedNotFound"
)

// RowWriter is the external collaborator that fills business data rows
// below the header block. It returns the number of rows it wrote.
type RowWriter interface {
	WriteRows(out grid.Writer, startRow int, matches []header.Match) (int, *util.Result)
}

// RowWriterFunc adapts a function to the RowWriter interface.
type RowWriterFunc func(out grid.Writer, startRow int, matches []header.Match) (int, *util.Result)

func (f RowWriterFunc) WriteRows(out grid.Writer, startRow int, matches []header.Match) (int, *util.Result) {
	return f(out, startRow, matches)
}

// SheetConfig carries the per-sheet knobs. The zero value processes a
// sheet with an identity column layout, no footer block and no
// quantity-mode sub-columns.
type SheetConfig struct {
	QuantityMode bool            `json:"quantity_mode,omitempty" yaml:"quantity_mode,omitempty"`
	Mapping      *header.Mapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`

	// Column layout: identifier lists aligned by remap, or nothing for
	// identity. OutputColCount caps replay width; 0 derives it from the
	// mapper.
	TemplateColumns []string `json:"template_columns,omitempty" yaml:"template_columns,omitempty"`
	OutputColumns   []string `json:"output_columns,omitempty" yaml:"output_columns,omitempty"`
	OutputColCount  int      `json:"output_col_count,omitempty" yaml:"output_col_count,omitempty"`

	// HeaderEndRow overrides the last template header row; 0 derives it
	// from the extracted matches. FooterStartRow of 0 means the
	// template has no footer block.
	HeaderEndRow   int `json:"header_end_row,omitempty" yaml:"header_end_row,omitempty"`
	FooterStartRow int `json:"footer_start_row,omitempty" yaml:"footer_start_row,omitempty"`

	// Multi-chunk sheets replay the header once and the footer only
	// after the last chunk.
	SkipHeaderReplay bool `json:"skip_header_replay,omitempty" yaml:"skip_header_replay,omitempty"`
	SkipFooterReplay bool `json:"skip_footer_replay,omitempty" yaml:"skip_footer_replay,omitempty"`
}

// NewMapper builds the sheet's column mapper: identifier-derived when
// column lists are configured, identity otherwise.
func (c SheetConfig) NewMapper(templateCols int) (*remap.Mapper, *util.Result) {
	if len(c.TemplateColumns) > 0 {
		m, res := remap.NewMapperFromIdentifiers(c.TemplateColumns, c.OutputColumns)
		if res != nil {
			return nil, res.With("NewMapperFromIdentifiers")
		}
		return m, nil
	}
	return remap.Identity(templateCols), nil
}

// Result is the outcome of one sheet pass, consumed by the caller and
// the audit log.
type Result struct {
	PassID       string         `json:"pass_id" yaml:"pass_id"`
	Sheet        string         `json:"sheet" yaml:"sheet"`
	State        State          `json:"state" yaml:"state"`
	HeaderRow    int            `json:"header_row,omitempty" yaml:"header_row,omitempty"`
	DoubleHeader bool           `json:"double_header,omitempty" yaml:"double_header,omitempty"`

	// QuantityEnhanced is true only when sub-columns were actually
	// synthesized, not merely because quantity mode was configured.
	QuantityEnhanced bool `json:"quantity_enhanced,omitempty" yaml:"quantity_enhanced,omitempty"`
	Matches      []header.Match `json:"matches,omitempty" yaml:"matches,omitempty"`
	StartRow     int            `json:"start_row,omitempty" yaml:"start_row,omitempty"`
	RowsWritten  int            `json:"rows_written,omitempty" yaml:"rows_written,omitempty"`
	FooterRow    int            `json:"footer_row,omitempty" yaml:"footer_row,omitempty"`

	HeaderSnapshotID string `json:"header_snapshot_id,omitempty" yaml:"header_snapshot_id,omitempty"`
	FooterSnapshotID string `json:"footer_snapshot_id,omitempty" yaml:"footer_snapshot_id,omitempty"`

	// Candidates are the bold-scan diagnostics of the locate step.
	Candidates []header.RowStats `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

func (r *Result) NotFound() bool { return r.State == StateFailedNotFound }

// Processor runs the structural pass for one sheet. The template grid
// is read-only for the whole run; only the processor's replay steps and
// the external RowWriter mutate the output grid, strictly in sequence.
type Processor struct {
	Template grid.Reader
	Output   grid.Writer
	Cfg      SheetConfig
	Writer   RowWriter

	logger *zerolog.Logger
}

func NewProcessor(tpl grid.Reader, out grid.Writer, cfg SheetConfig, w RowWriter, _logger *zerolog.Logger) (*Processor, *util.Result) {
	if tpl == nil {
		return nil, util.MsgError("NewProcessor", "nil template grid")
	}
	if out == nil {
		return nil, util.MsgError("NewProcessor", "nil output grid")
	}
	logger := _logger.With().Str("sheet", tpl.Name()).Logger()
	return &Processor{Template: tpl, Output: out, Cfg: cfg, Writer: w, logger: &logger}, nil
}

// Run executes the pass. A header that cannot be located ends the pass
// in FailedNotFound inside the Result; the caller decides whether to
// skip the sheet or abort. Only a broken column mapping (a
// configuration error) or a write failure returns a *util.Result.
func (p *Processor) Run() (*Result, *util.Result) {
	result := &Result{PassID: uuid.NewString(), Sheet: p.Template.Name()}
	logger := p.logger.With().Str("pass", result.PassID).Logger()

	locator := header.NewLocator(p.Cfg.Mapping, &logger)
	headerRow, found := locator.Locate(p.Template)
	result.Candidates = locator.Candidates
	if !found {
		result.State = StateFailedNotFound
		logger.Info().Msg("no header row found, sheet left unprocessed")
		return result, nil
	}
	result.HeaderRow = headerRow
	result.State = StateLocated
	logger.Debug().Msgf("state %s: header row %d", result.State, headerRow)

	extractor := header.NewExtractor(p.Cfg.QuantityMode, &logger)
	matches, double, enhanced := extractor.Extract(p.Template, headerRow)
	result.DoubleHeader = double
	if double {
		result.State = StateDoubleHeader
	} else {
		result.State = StateSingleHeader
	}
	result.Matches = matches
	result.StartRow = header.StartRow(matches)
	result.State = StateExtracted
	if enhanced {
		result.QuantityEnhanced = true
		result.State = StateQuantityEnhanced
	}
	logger.Debug().Msgf("state %s: %d matches, start row %d", result.State, len(matches), result.StartRow)

	headerEnd := p.Cfg.HeaderEndRow
	if headerEnd == 0 {
		headerEnd = lastMatchRow(matches, headerRow)
	}

	tplRows, tplCols := p.Template.Dims()
	mapper, res := p.Cfg.NewMapper(tplCols)
	if res != nil {
		return nil, res.With("NewMapper")
	}
	outputCols := p.Cfg.OutputColCount
	if outputCols == 0 {
		outputCols = mapper.OutputCols()
	}

	// Both blocks are captured from the pristine template before any
	// output write.
	headerSnap, res := tplstate.Capture(p.Template, tplstate.BlockHeader, 1, headerEnd, &logger)
	if res != nil {
		return nil, res.With("CaptureHeader")
	}
	result.HeaderSnapshotID = headerSnap.ID
	result.State = StateCapturedHeader

	var footerSnap *tplstate.Snapshot
	if p.Cfg.FooterStartRow > 0 {
		if p.Cfg.FooterStartRow > tplRows {
			return nil, util.MsgError("CaptureFooter", fmt.Sprintf("footer start row %d beyond template rows %d", p.Cfg.FooterStartRow, tplRows))
		}
		footerSnap, res = tplstate.Capture(p.Template, tplstate.BlockFooter, p.Cfg.FooterStartRow, tplRows, &logger)
		if res != nil {
			return nil, res.With("CaptureFooter")
		}
		result.FooterSnapshotID = footerSnap.ID
		result.State = StateCapturedFooter
	}

	if !p.Cfg.SkipHeaderReplay {
		if res := tplstate.Replay(headerSnap, p.Output, 1, mapper, outputCols, &logger); res != nil {
			return nil, res.With("ReplayHeader")
		}
		result.State = StateReplayedHeader
		logger.Debug().Msgf("state %s", result.State)
	}

	dataStart := headerEnd + 1
	if p.Writer != nil {
		written, res := p.Writer.WriteRows(p.Output, dataStart, matches)
		if res != nil {
			return nil, res.With("WriteRows")
		}
		result.RowsWritten = written
		result.State = StateDataRowsWritten
		logger.Debug().Msgf("state %s: %d data rows from row %d", result.State, written, dataStart)
	}

	if footerSnap != nil && !p.Cfg.SkipFooterReplay {
		result.FooterRow = dataStart + result.RowsWritten
		if res := tplstate.Replay(footerSnap, p.Output, result.FooterRow, mapper, outputCols, &logger); res != nil {
			return nil, res.With("ReplayFooter")
		}
		result.State = StateReplayedFooter
		logger.Debug().Msgf("state %s: footer at row %d", result.State, result.FooterRow)
	}

	result.State = StateCompleted
	logger.Info().Msgf("sheet pass completed: header row %d, %d matches, %d data rows", headerRow, len(matches), result.RowsWritten)
	return result, nil
}

func lastMatchRow(matches []header.Match, fallback int) int {
	max := fallback
	for _, m := range matches {
		if m.Row > max {
			max = m.Row
		}
	}
	return max
}
