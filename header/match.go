// Package header locates and enumerates the header block of business
// spreadsheet templates. Templates carry no reliable fixed coordinates,
// so the header row is found by formatting heuristics with a keyword
// fallback, then expanded into labeled cell positions.
package header

// Match is one discovered (or synthesized) header cell.
type Match struct {
	Label string `json:"label" yaml:"label"`
	Row   int    `json:"row" yaml:"row"`
	Col   int    `json:"col" yaml:"col"`
}

// StartRow is the row where the header block begins: the minimum row
// across all matches, or 1 when there are none.
func StartRow(matches []Match) int {
	if len(matches) == 0 {
		return 1
	}
	min := matches[0].Row
	for _, m := range matches[1:] {
		if m.Row < min {
			min = m.Row
		}
	}
	return min
}
