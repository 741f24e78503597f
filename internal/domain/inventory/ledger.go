package inventory

import (
	"sort"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// RemainderRow is the running remainder of one raw ingredient at one
// location: everything added minus everything consumed.
type RemainderRow struct {
	RawCode   string           `json:"raw_code"`
	Location  catalog.Location `json:"location"`
	Added     decimal.Decimal  `json:"added"`
	Consumed  decimal.Decimal  `json:"consumed"`
	Remaining decimal.Decimal  `json:"remaining"`
}

// Remainders reduces the ledger to per-ingredient running remainders,
// sorted ascending by remaining quantity so the rows closest to running
// out come first. Physical counts do not move the running remainder; they
// only participate in checkpoint reconciliation.
func Remainders(events []*StockEvent) []RemainderRow {
	type key struct {
		code string
		loc  catalog.Location
	}

	acc := make(map[key]*RemainderRow)
	for _, ev := range events {
		k := key{code: ev.RawCode, loc: ev.Location}
		row, ok := acc[k]
		if !ok {
			row = &RemainderRow{
				RawCode:   ev.RawCode,
				Location:  ev.Location,
				Added:     decimal.Zero,
				Consumed:  decimal.Zero,
				Remaining: decimal.Zero,
			}
			acc[k] = row
		}

		switch ev.Kind {
		case EventKindAdd:
			row.Added = row.Added.Add(ev.Quantity)
		case EventKindConsume:
			row.Consumed = row.Consumed.Add(ev.Quantity)
		}
	}

	rows := make([]RemainderRow, 0, len(acc))
	for _, row := range acc {
		row.Remaining = row.Added.Sub(row.Consumed)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Remaining.Equal(rows[j].Remaining) {
			return rows[i].Remaining.LessThan(rows[j].Remaining)
		}
		if rows[i].RawCode != rows[j].RawCode {
			return rows[i].RawCode < rows[j].RawCode
		}
		return rows[i].Location < rows[j].Location
	})

	return rows
}
