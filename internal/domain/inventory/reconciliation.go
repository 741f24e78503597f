package inventory

import (
	"sort"
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Manual counting is allowed to be off by one unit; anything beyond that is
// flagged. This tolerance is a business rule, not a rounding artifact.
var gapTolerance = decimal.NewFromInt(1)

// ReconciliationStatus flags whether a counted remainder matches the
// ledger within tolerance.
type ReconciliationStatus string

const (
	StatusOK    ReconciliationStatus = "OK"
	StatusError ReconciliationStatus = "Error"
)

// ReconciliationRow compares the ledger between two physical-count
// checkpoints for one raw ingredient at one location.
type ReconciliationRow struct {
	RawCode  string               `json:"raw_code"`
	Location catalog.Location     `json:"location"`
	From     decimal.Decimal      `json:"from"`     // counted quantity at the first checkpoint
	Added    decimal.Decimal      `json:"added"`    // additions strictly between the checkpoints
	Consumed decimal.Decimal      `json:"consumed"` // consumption strictly between the checkpoints
	Remain   decimal.Decimal      `json:"remain"`   // From + Added - Consumed
	To       decimal.Decimal      `json:"to"`       // counted quantity at the second checkpoint
	Gap      decimal.Decimal      `json:"gap"`      // To - Remain
	Status   ReconciliationStatus `json:"status"`
}

// ReconciliationReport is the variance report between the two most recent
// physical-count checkpoints.
type ReconciliationReport struct {
	FromDate time.Time           `json:"from_date"`
	ToDate   time.Time           `json:"to_date"`
	Rows     []ReconciliationRow `json:"rows"`
}

// Reconcile builds the checkpoint variance report from the event ledger.
// The two most recent calendar days carrying physical-count events bound
// the window; add/consume events strictly between the first count and the
// last count are summed, and the expected remainder is compared against
// the second count with a one-unit tolerance.
func Reconcile(events []*StockEvent) (*ReconciliationReport, error) {
	countDays := make(map[time.Time]struct{})
	for _, ev := range events {
		if ev.Kind == EventKindCount {
			countDays[dayOf(ev.RecordedAt)] = struct{}{}
		}
	}
	if len(countDays) < 2 {
		return nil, shared.NewDomainError("EMPTY_RESULT", "need at least two physical-count days to reconcile")
	}

	days := make([]time.Time, 0, len(countDays))
	for d := range countDays {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	fromDay, toDay := days[len(days)-2], days[len(days)-1]

	// Window bounds: earliest count on the first day, latest count on the
	// second day.
	var windowStart, windowEnd time.Time
	for _, ev := range events {
		if ev.Kind != EventKindCount {
			continue
		}
		switch dayOf(ev.RecordedAt) {
		case fromDay:
			if windowStart.IsZero() || ev.RecordedAt.Before(windowStart) {
				windowStart = ev.RecordedAt
			}
		case toDay:
			if ev.RecordedAt.After(windowEnd) {
				windowEnd = ev.RecordedAt
			}
		}
	}

	type key struct {
		code string
		loc  catalog.Location
	}
	acc := make(map[key]*ReconciliationRow)
	rowFor := func(ev *StockEvent) *ReconciliationRow {
		k := key{code: ev.RawCode, loc: ev.Location}
		row, ok := acc[k]
		if !ok {
			row = &ReconciliationRow{RawCode: ev.RawCode, Location: ev.Location}
			acc[k] = row
		}
		return row
	}

	for _, ev := range events {
		switch ev.Kind {
		case EventKindCount:
			switch dayOf(ev.RecordedAt) {
			case fromDay:
				rowFor(ev).From = rowFor(ev).From.Add(ev.Quantity)
			case toDay:
				rowFor(ev).To = rowFor(ev).To.Add(ev.Quantity)
			}
		case EventKindAdd:
			if ev.RecordedAt.After(windowStart) && ev.RecordedAt.Before(windowEnd) {
				rowFor(ev).Added = rowFor(ev).Added.Add(ev.Quantity)
			}
		case EventKindConsume:
			if ev.RecordedAt.After(windowStart) && ev.RecordedAt.Before(windowEnd) {
				rowFor(ev).Consumed = rowFor(ev).Consumed.Add(ev.Quantity)
			}
		}
	}

	rows := make([]ReconciliationRow, 0, len(acc))
	for _, row := range acc {
		row.Remain = row.From.Add(row.Added).Sub(row.Consumed)
		row.Gap = row.To.Sub(row.Remain)
		if row.Gap.Abs().LessThanOrEqual(gapTolerance) {
			row.Status = StatusOK
		} else {
			row.Status = StatusError
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RawCode != rows[j].RawCode {
			return rows[i].RawCode < rows[j].RawCode
		}
		return rows[i].Location < rows[j].Location
	})

	return &ReconciliationReport{FromDate: fromDay, ToDate: toDay, Rows: rows}, nil
}

// dayOf truncates a timestamp to its calendar day
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
