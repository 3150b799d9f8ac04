package layout

import (
	"io"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/soderasen-au/go-common/util"
)

// SheetAuditRecord is one advisory line of the structural-pass audit
// trail. Field set is not a stable contract.
type SheetAuditRecord struct {
	Timestamp    time.Time `csv:"timestamp"`
	PassID       string    `csv:"pass_id"`
	Sheet        string    `csv:"sheet"`
	State        State     `csv:"state"`
	HeaderRow    int       `csv:"header_row"`
	DoubleHeader bool      `csv:"double_header"`
	BoldCells    int       `csv:"bold_cells"`
	Matches      int       `csv:"matches"`
	StartRow     int       `csv:"start_row"`
	RowsWritten  int       `csv:"rows_written"`
	FooterRow    int       `csv:"footer_row"`
}

// AuditLog accumulates per-sheet records and writes them as CSV.
type AuditLog struct {
	mu      sync.Mutex
	records []SheetAuditRecord
}

func NewAuditLog() *AuditLog {
	return &AuditLog{records: make([]SheetAuditRecord, 0)}
}

// Record appends the outcome of one sheet pass.
func (a *AuditLog) Record(r *Result) {
	if r == nil {
		return
	}
	rec := SheetAuditRecord{
		Timestamp:    time.Now(),
		PassID:       r.PassID,
		Sheet:        r.Sheet,
		State:        r.State,
		HeaderRow:    r.HeaderRow,
		DoubleHeader: r.DoubleHeader,
		Matches:      len(r.Matches),
		StartRow:     r.StartRow,
		RowsWritten:  r.RowsWritten,
		FooterRow:    r.FooterRow,
	}
	for _, c := range r.Candidates {
		if c.Row == r.HeaderRow {
			rec.BoldCells = c.Bold
			break
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

func (a *AuditLog) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Flush writes all accumulated records as CSV with a header line.
func (a *AuditLog) Flush(w io.Writer) *util.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := gocsv.Marshal(&a.records, w); err != nil {
		return util.Error("Marshal", err)
	}
	return nil
}
