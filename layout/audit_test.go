package layout_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soderasen-au/go-common/loggers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soderasen-au/go-xltpl/header"
	"github.com/soderasen-au/go-xltpl/layout"
)

func TestAuditLog(t *testing.T) {
	log := layout.NewAuditLog()
	log.Record(nil)
	assert.Zero(t, log.Len())

	log.Record(&layout.Result{
		PassID:    "pass-1",
		Sheet:     "Invoice",
		State:     layout.StateCompleted,
		HeaderRow: 3,
		Matches: []header.Match{
			{Label: "Mark", Row: 3, Col: 1},
			{Label: "Qty", Row: 3, Col: 2},
		},
		StartRow:    3,
		RowsWritten: 12,
		FooterRow:   16,
		Candidates: []header.RowStats{
			{Row: 3, Filled: 7, Bold: 7, Text: 7},
		},
	})
	log.Record(&layout.Result{
		PassID: "pass-2",
		Sheet:  "Summary",
		State:  layout.StateFailedNotFound,
	})
	assert.Equal(t, 2, log.Len())

	var buf bytes.Buffer
	require.Nil(t, log.Flush(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header line plus one line per sheet")
	assert.Contains(t, lines[0], "pass_id")
	assert.Contains(t, lines[0], "bold_cells")
	assert.Contains(t, lines[1], "pass-1")
	assert.Contains(t, lines[1], "Completed")
	assert.Contains(t, lines[1], "Invoice")
	assert.Contains(t, lines[2], "pass-2")
	assert.Contains(t, lines[2], "FailedNotFound")
}

func TestAuditRecordBoldDiagnostics(t *testing.T) {
	out, _ := outputPair(t, "Invoice")
	p, res := layout.NewProcessor(invoiceTemplate(t).reader(), out, businessConfig(), threeRowWriter(), loggers.NullLogger)
	require.Nil(t, res)
	result, res := p.Run()
	require.Nil(t, res)

	log := layout.NewAuditLog()
	log.Record(result)

	var buf bytes.Buffer
	require.Nil(t, log.Flush(&buf))
	assert.Contains(t, buf.String(), result.PassID)
}
