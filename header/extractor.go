package header

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/soderasen-au/go-xltpl/grid"
)

// shortLabelLen separates sub-column labels ("PCS", "SF", "KG") from
// data-like long text in the double-header decision.
const shortLabelLen = 5

// Extractor expands a located header row into labeled cell positions,
// deciding single- vs double-row headers, and optionally synthesizing
// the fixed packing-list sub-columns.
type Extractor struct {
	// QuantityMode appends the synthetic PCS/SF sub-columns below the
	// quantity column on packing-list sheets.
	QuantityMode bool

	logger *zerolog.Logger
}

func NewExtractor(quantityMode bool, _logger *zerolog.Logger) *Extractor {
	logger := _logger.With().Str("header", "extractor").Logger()
	return &Extractor{QuantityMode: quantityMode, logger: &logger}
}

// Extract enumerates header matches starting at the located row. It
// returns the matches, whether a two-row header was detected, and
// whether quantity sub-columns were synthesized.
func (e *Extractor) Extract(g grid.Reader, headerRow int) ([]Match, bool, bool) {
	double := e.isDoubleHeader(g, headerRow)

	matches := extractRow(g, headerRow, nil)
	if double {
		e.logger.Debug().Msgf("two-row header at rows %d-%d", headerRow, headerRow+1)
		matches = extractRow(g, headerRow+1, matches)
	} else {
		e.logger.Debug().Msgf("single-row header at row %d", headerRow)
	}

	enhanced := false
	if e.QuantityMode {
		before := len(matches)
		matches = e.applyQuantityEnhancement(g, matches)
		enhanced = len(matches) > before
	}

	return matches, double, enhanced
}

// isDoubleHeader declares a two-row header only when all hold: the
// located row mentions a quantity column, a following row exists, and
// that row looks like sub-headers (majority text, >= 2 bold cells,
// short labels not outnumbered by long ones).
func (e *Extractor) isDoubleHeader(g grid.Reader, headerRow int) bool {
	_, cols := g.Dims()
	scanCols := cols
	if scanCols > MaxScanCols {
		scanCols = MaxScanCols
	}

	hasQuantity := false
	for col := 1; col <= scanCols; col++ {
		text := strings.ToLower(strings.TrimSpace(g.Value(headerRow, col)))
		if text == "" {
			continue
		}
		if strings.Contains(text, "quantity") || strings.Contains(text, "qty") {
			hasQuantity = true
			break
		}
	}
	if !hasQuantity {
		e.logger.Debug().Msgf("row %d has no quantity column, single-row header", headerRow)
		return false
	}

	rows, _ := g.Dims()
	if headerRow >= rows {
		e.logger.Debug().Msgf("row %d is the last row, single-row header", headerRow)
		return false
	}

	next := headerRow + 1
	var text, numeric, bold, short, long int
	for col := 1; col <= scanCols; col++ {
		cell := strings.TrimSpace(g.Value(next, col))
		if cell == "" {
			continue
		}
		if isBold(g.Style(next, col)) {
			bold++
		}
		if isNumericText(cell) {
			numeric++
			continue
		}
		text++
		if len(cell) <= shortLabelLen {
			short++
		} else {
			long++
		}
	}

	if text == 0 || numeric >= text {
		e.logger.Debug().Msgf("row %d looks like data (%d text, %d numeric)", next, text, numeric)
		return false
	}
	if bold < 2 {
		e.logger.Debug().Msgf("row %d has only %d bold cells", next, bold)
		return false
	}
	if long > short {
		e.logger.Debug().Msgf("row %d has %d long labels vs %d short ones", next, long, short)
		return false
	}

	return true
}

// applyQuantityEnhancement appends the business-fixed PCS/SF sub-column
// matches one row below the quantity column. Only packing-list sheets
// carry these sub-columns; other sheets pass through untouched.
func (e *Extractor) applyQuantityEnhancement(g grid.Reader, matches []Match) []Match {
	name := strings.ToLower(g.Name())
	if !strings.Contains(name, "packing") && !strings.Contains(name, "pkl") {
		return matches
	}

	var quantity *Match
	for i := range matches {
		if strings.Contains(strings.ToLower(matches[i].Label), "quantity") {
			quantity = &matches[i]
			break
		}
	}
	if quantity == nil {
		return matches
	}

	e.logger.Debug().Msgf("synthesizing PCS/SF below quantity column (%d, %d)", quantity.Row, quantity.Col)
	enhanced := append(append([]Match(nil), matches...),
		Match{Label: "PCS", Row: quantity.Row + 1, Col: quantity.Col},
		Match{Label: "SF", Row: quantity.Row + 1, Col: quantity.Col + 1},
	)
	return enhanced
}

func extractRow(g grid.Reader, row int, matches []Match) []Match {
	_, cols := g.Dims()
	for col := 1; col <= cols; col++ {
		text := strings.TrimSpace(g.Value(row, col))
		if text == "" {
			continue
		}
		matches = append(matches, Match{Label: text, Row: row, Col: col})
	}
	return matches
}
