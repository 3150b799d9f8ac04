package header

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/soderasen-au/go-xltpl/grid"
)

const (
	// MaxScanRows / MaxScanCols bound the heuristic window: headers of
	// the supported business documents always sit near the top left.
	MaxScanRows = 30
	MaxScanCols = 20
)

// supportedSheetNames gates the locator: sheets named otherwise get no
// heuristic work at all.
var supportedSheetNames = []string{
	"invoice",
	"packing list",
	"detail packing list",
	"contract",
}

// IsSupportedSheet reports whether the sheet name, case-insensitively,
// contains one of the supported business document names.
func IsSupportedSheet(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, valid := range supportedSheetNames {
		if strings.Contains(lower, valid) {
			return true
		}
	}
	return false
}

// RowStats summarizes one scanned row inside the heuristic window.
type RowStats struct {
	Row     int `json:"row" yaml:"row"`
	Filled  int `json:"filled" yaml:"filled"`
	Bold    int `json:"bold" yaml:"bold"`
	Text    int `json:"text" yaml:"text"`
	Numeric int `json:"numeric" yaml:"numeric"`
}

// Strategy is one independent header-row finder tried over a grid.
// Strategies are ordered; the first hit wins.
type Strategy struct {
	Name string
	Find func(g grid.Reader, logger *zerolog.Logger) (int, bool)
}

// Locator finds the header row of a supported sheet, trying the
// bold-majority heuristic first and keyword matching as fallback.
type Locator struct {
	keywords   []string
	strategies []Strategy
	logger     *zerolog.Logger

	// Candidates holds the qualifying rows of the last bold scan, most
	// bold cells first. Diagnostic only.
	Candidates []RowStats
}

func NewLocator(mapping *Mapping, _logger *zerolog.Logger) *Locator {
	logger := _logger.With().Str("header", "locator").Logger()
	l := &Locator{
		keywords: mapping.Keywords(),
		logger:   &logger,
	}
	l.strategies = []Strategy{
		{Name: "bold-majority", Find: l.findByBold},
		{Name: "keyword", Find: l.findByKeywords},
	}
	return l
}

// Locate returns the header row of g, or found=false when the sheet is
// unsupported or no strategy succeeds. Not finding a header is a
// recoverable per-sheet condition, not an error.
func (l *Locator) Locate(g grid.Reader) (int, bool) {
	if !IsSupportedSheet(g.Name()) {
		l.logger.Debug().Msgf("sheet `%s` is not a supported document type", g.Name())
		return 0, false
	}

	for _, s := range l.strategies {
		if row, ok := s.Find(g, l.logger); ok {
			l.logger.Debug().Msgf("strategy `%s` selected header row %d on sheet `%s`", s.Name, row, g.Name())
			return row, true
		}
		l.logger.Debug().Msgf("strategy `%s` found no header row on sheet `%s`", s.Name, g.Name())
	}
	return 0, false
}

// findByBold qualifies rows with at least 3 bold cells and more text
// than numeric cells, then picks the highest bold count; ties resolve
// to the lowest row number.
func (l *Locator) findByBold(g grid.Reader, logger *zerolog.Logger) (int, bool) {
	rows, _ := g.Dims()
	if rows > MaxScanRows {
		rows = MaxScanRows
	}

	l.Candidates = l.Candidates[:0]
	for row := 1; row <= rows; row++ {
		stats := ScanRow(g, row)
		if stats.Bold >= 3 && stats.Text > stats.Numeric {
			l.Candidates = append(l.Candidates, stats)
			logger.Debug().Msgf("candidate row %2d: %2d bold, %d text, %d numeric", stats.Row, stats.Bold, stats.Text, stats.Numeric)
		}
	}
	if len(l.Candidates) == 0 {
		return 0, false
	}

	// stable sort: ties keep scan order, so equal bold counts resolve
	// to the lowest row
	sort.SliceStable(l.Candidates, func(i, j int) bool {
		return l.Candidates[i].Bold > l.Candidates[j].Bold
	})
	return l.Candidates[0].Row, true
}

// findByKeywords returns the first row with at least 3 cells matching
// the keyword set.
func (l *Locator) findByKeywords(g grid.Reader, logger *zerolog.Logger) (int, bool) {
	rows, cols := g.Dims()
	if rows > MaxScanRows {
		rows = MaxScanRows
	}
	if cols > MaxScanCols {
		cols = MaxScanCols
	}

	for row := 1; row <= rows; row++ {
		matched := 0
		for col := 1; col <= cols; col++ {
			text := strings.TrimSpace(g.Value(row, col))
			if text == "" {
				continue
			}
			for _, kw := range l.keywords {
				if MatchesKeyword(text, kw) {
					matched++
					break
				}
			}
		}
		if matched >= 3 {
			logger.Debug().Msgf("row %d matches %d keywords", row, matched)
			return row, true
		}
	}
	return 0, false
}

// ScanRow counts bold, numeric-looking and text cells in the scan
// window of one row.
func ScanRow(g grid.Reader, row int) RowStats {
	_, cols := g.Dims()
	if cols > MaxScanCols {
		cols = MaxScanCols
	}

	stats := RowStats{Row: row}
	for col := 1; col <= cols; col++ {
		text := strings.TrimSpace(g.Value(row, col))
		if text == "" {
			continue
		}
		stats.Filled++
		if isBold(g.Style(row, col)) {
			stats.Bold++
		}
		if isNumericText(text) {
			stats.Numeric++
		} else {
			stats.Text++
		}
	}
	return stats
}

func isBold(style *excelize.Style) bool {
	return style != nil && style.Font != nil && style.Font.Bold
}

// isNumericText strips thousands separators, currency signs, decimal
// points and minus signs, then tests for an all-digit remainder.
func isNumericText(s string) bool {
	clean := strings.NewReplacer(",", "", "$", "", ".", "", "-", "").Replace(s)
	if clean == "" {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
