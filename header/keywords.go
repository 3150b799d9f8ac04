package header

import (
	"regexp"
	"sort"
	"strings"

	"github.com/soderasen-au/go-common/util"
	"gopkg.in/yaml.v3"
)

// defaultKeywords covers the labels seen across customer templates when
// no label mapping is supplied.
var defaultKeywords = []string{
	"P.O", "ITEM", "Description", "Quantity", "Amount",
	"Mark", "Unit price", "Price", "Total", "Weight", "CBM", "Pallet",
	"Remarks", "HS CODE", "Name", "Commodity", "Goods", "Product",
	"PCS", "SF", "No.", "N.W", "G.W", "Net", "Gross", "FCA",
}

// genericWords are dropped when deriving keywords from mapping labels.
var genericWords = map[string]bool{
	"of": true, "and": true, "the": true, "in": true, "for": true, "per": true, "a": true,
}

// compound keywords added when both constituent tokens co-occur in a label.
var compoundKeywords = [][2]string{
	{"unit", "price"},
	{"gross", "weight"},
	{"net", "weight"},
	{"hs", "code"},
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)
var wordSplitRe = regexp.MustCompile(`[\s_/,;:()\-]+`)

// Mapping is the label-to-business-field configuration supplied by the
// caller. Its labels seed the keyword set used by the fallback locator
// strategy.
type Mapping struct {
	Mappings map[string]string `json:"mappings" yaml:"mappings"`
}

// ParseMapping decodes caller-supplied mapping bytes (YAML or JSON,
// yaml.v3 handles both).
func ParseMapping(data []byte) (*Mapping, *util.Result) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, util.Error("ParseMapping", err)
	}
	return &m, nil
}

// Keywords derives the keyword set from the mapping labels: each label
// is split into significant words, and fixed compounds are added when
// their tokens co-occur. An empty derivation falls back to the built-in
// default set.
func (m *Mapping) Keywords() []string {
	set := make(map[string]bool)
	if m != nil {
		for label := range m.Mappings {
			for _, kw := range keywordsFromLabel(label) {
				set[kw] = true
			}
		}
	}
	if len(set) == 0 {
		return append([]string(nil), defaultKeywords...)
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

func keywordsFromLabel(label string) []string {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return nil
	}

	keywords := make([]string, 0, 4)
	for _, word := range wordSplitRe.Split(lower, -1) {
		word = strings.Trim(word, ".")
		if len(word) <= 1 || genericWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}

	for _, compound := range compoundKeywords {
		if strings.Contains(lower, compound[0]) && strings.Contains(lower, compound[1]) {
			keywords = append(keywords, compound[0]+" "+compound[1])
		}
	}
	if strings.Contains(lower, "p.o") {
		keywords = append(keywords, "p.o")
	}

	return keywords
}

// MatchesKeyword reports whether a cell text matches a keyword: equal
// after case/space normalization; or equal after stripping punctuation
// and collapsing whitespace; or, for short cell text (<= 20 chars), the
// keyword occurs as a substring covering at least 60% of the cell text.
func MatchesKeyword(cellText, keyword string) bool {
	cell := strings.ToLower(strings.TrimSpace(cellText))
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if cell == "" || kw == "" {
		return false
	}

	if cell == kw {
		return true
	}

	if normalizeText(cell) == normalizeText(kw) {
		return true
	}

	if len(cell) <= 20 && strings.Contains(cell, kw) {
		return float64(len(kw))/float64(len(cell)) >= 0.6
	}

	return false
}

func normalizeText(s string) string {
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
