// Package remap maps template column indices onto output column
// indices. Output documents may drop template columns (business-mode
// filters), so every template column resolves to either a kept output
// position or an explicit removal.
package remap

import (
	"fmt"

	"github.com/soderasen-au/go-common/util"
)

// Target is where one template column lands in the output: a kept
// output index or removed. The zero value is removed, so a missing
// table entry can never be mistaken for column 0.
type Target struct {
	kept bool
	col  int
}

func Kept(outputCol int) Target { return Target{kept: true, col: outputCol} }

func Removed() Target { return Target{} }

// OutputCol returns the output column index and whether the column is kept.
func (t Target) OutputCol() (int, bool) { return t.col, t.kept }

func (t Target) IsRemoved() bool { return !t.kept }

// Mapper is a total, order-preserving function from template column
// index (1-based) to Target. Construction validates the mapping;
// lookups afterwards cannot fail.
type Mapper struct {
	targets      map[int]Target
	templateCols int
}

// NewMapperFromTable builds a Mapper from an explicit table. Template
// columns absent from the table are removed. Kept output indices must
// be collision-free and strictly increasing with the template index; a
// violation is a configuration error since a scrambled mapping would
// silently misplace replayed content.
func NewMapperFromTable(table map[int]Target) (*Mapper, *util.Result) {
	m := &Mapper{targets: make(map[int]Target, len(table))}
	maxIx := 0
	for tplIx := range table {
		if tplIx < 1 {
			return nil, util.MsgError("NewMapperFromTable", fmt.Sprintf("invalid template column index: %d", tplIx))
		}
		if tplIx > maxIx {
			maxIx = tplIx
		}
	}
	m.templateCols = maxIx

	lastOutput := 0
	for tplIx := 1; tplIx <= maxIx; tplIx++ {
		t, ok := table[tplIx]
		if !ok {
			t = Removed()
		}
		if out, kept := t.OutputCol(); kept {
			if out < 1 {
				return nil, util.MsgError("NewMapperFromTable", fmt.Sprintf("template column %d maps to invalid output column %d", tplIx, out))
			}
			if out <= lastOutput {
				return nil, util.MsgError("NewMapperFromTable", fmt.Sprintf("template column %d maps to output column %d which is not after previous output column %d", tplIx, out, lastOutput))
			}
			lastOutput = out
		}
		m.targets[tplIx] = t
	}

	return m, nil
}

// NewMapperFromIdentifiers aligns an ordered template column identifier
// list against the ordered output identifier list (post-filter).
// Identifiers absent from the output are removed; kept identifiers must
// preserve the template's relative order.
func NewMapperFromIdentifiers(template, output []string) (*Mapper, *util.Result) {
	outputIx := make(map[string]int, len(output))
	for i, id := range output {
		if _, ok := outputIx[id]; ok {
			return nil, util.MsgError("NewMapperFromIdentifiers", fmt.Sprintf("duplicate output column identifier: %s", id))
		}
		outputIx[id] = i + 1
	}

	table := make(map[int]Target, len(template))
	for i, id := range template {
		if out, ok := outputIx[id]; ok {
			table[i+1] = Kept(out)
		} else {
			table[i+1] = Removed()
		}
	}

	m, res := NewMapperFromTable(table)
	if res != nil {
		return nil, res.With("NewMapperFromIdentifiers")
	}
	m.templateCols = len(template)
	return m, nil
}

// Identity maps n template columns straight through, for sheets with no
// column filter.
func Identity(n int) *Mapper {
	table := make(map[int]Target, n)
	for i := 1; i <= n; i++ {
		table[i] = Kept(i)
	}
	// cannot fail: indices are strictly increasing by construction
	m, _ := NewMapperFromTable(table)
	return m
}

// Map resolves one template column. Columns beyond the known template
// width are removed: templates routinely over-declare structure.
func (m *Mapper) Map(templateCol int) Target {
	if t, ok := m.targets[templateCol]; ok {
		return t
	}
	return Removed()
}

func (m *Mapper) TemplateCols() int { return m.templateCols }

// OutputCols reports the highest kept output index.
func (m *Mapper) OutputCols() int {
	max := 0
	for _, t := range m.targets {
		if out, kept := t.OutputCol(); kept && out > max {
			max = out
		}
	}
	return max
}
