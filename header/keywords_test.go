package header_test

import (
	"testing"

	"github.com/soderasen-au/go-xltpl/header"
)

func TestMatchesKeyword(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		keyword string
		want    bool
	}{
		{"exact", "Quantity", "quantity", true},
		{"spaces", "  Quantity ", "quantity", true},
		{"punctuationStripped", "P.O", "p o", true},
		{"collapsedWhitespace", "Unit   Price", "unit price", true},
		{"substringMajority", "Quantity(PCS)", "quantity", true},
		{"substringMinority", "Total Amount In USD", "usd", false},
		{"longCellNoSubstring", "This is a very long description cell", "description", false},
		{"empty", "", "quantity", false},
		{"noMatch", "Remarks", "quantity", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := header.MatchesKeyword(tt.cell, tt.keyword); got != tt.want {
				t.Errorf("MatchesKeyword(%q, %q) = %v, want %v", tt.cell, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestMappingKeywordsDerivation(t *testing.T) {
	m := &header.Mapping{Mappings: map[string]string{
		"Unit Price (USD)": "unit_price",
		"Gross Weight":     "gross",
		"P.O N0.":          "po",
		"HS Code":          "hs_code",
	}}
	keywords := m.Keywords()

	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[kw] = true
	}

	for _, want := range []string{"unit price", "gross weight", "hs code", "p.o", "price", "weight", "code"} {
		if !set[want] {
			t.Errorf("derived keywords missing %q: %v", want, keywords)
		}
	}
	for _, generic := range []string{"a", "of"} {
		if set[generic] {
			t.Errorf("generic word %q should not be derived", generic)
		}
	}
}

func TestMappingKeywordsDefaultFallback(t *testing.T) {
	var nilMapping *header.Mapping
	keywords := nilMapping.Keywords()
	if len(keywords) != 26 {
		t.Fatalf("default keyword set has %d terms, want 26", len(keywords))
	}

	empty := &header.Mapping{}
	if got := len(empty.Keywords()); got != 26 {
		t.Fatalf("empty mapping should fall back to the 26 defaults, got %d", got)
	}
}

func TestParseMapping(t *testing.T) {
	data := []byte("mappings:\n  \"Unit Price\": unit_price\n  \"Quantity\": qty\n")
	m, res := header.ParseMapping(data)
	if res != nil {
		t.Fatalf("ParseMapping: %v", res)
	}
	if m.Mappings["Unit Price"] != "unit_price" || m.Mappings["Quantity"] != "qty" {
		t.Errorf("ParseMapping result: %+v", m.Mappings)
	}

	if _, res := header.ParseMapping([]byte("mappings: [not a map")); res == nil {
		t.Fatal("malformed document should fail")
	}
}
