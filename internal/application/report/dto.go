package report

import (
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// CashflowRequest asks for a period-over-period cash flow comparison.
// Dates are inclusive calendar days in YYYY-MM-DD form.
type CashflowRequest struct {
	Locations []string `json:"locations" binding:"required,min=1"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
}

// DailyFlow is one calendar day of the chart series. Synthetic marks
// forecast days that extend past the last observed receipt.
type DailyFlow struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	DirectCost decimal.Decimal `json:"direct_cost"`
	FixedCost  decimal.Decimal `json:"fixed_cost"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	Synthetic  bool            `json:"synthetic"`
}

// CashFlowPeriod is the rolled-up total of one comparison window
type CashFlowPeriod struct {
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Revenue    decimal.Decimal `json:"revenue"`
	DirectCost decimal.Decimal `json:"direct_cost"`
	FixedCost  decimal.Decimal `json:"fixed_cost"`
	NetProfit  decimal.Decimal `json:"net_profit"`
}

// UsageRow is one line of the raw-ingredient usage pivot: how much of an
// ingredient each location drew down in the previous and current windows,
// left-joined with what is still on the shelf.
type UsageRow struct {
	IngredientCode   string          `json:"ingredient_code"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Location         string          `json:"location"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	CurrentQuantity  decimal.Decimal `json:"current_quantity"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// MarginRow is one line of the drink margin report for the current window
type MarginRow struct {
	DrinkCode   string          `json:"drink_code"`
	DrinkName   string          `json:"drink_name"`
	Location    string          `json:"location"`
	Size        string          `json:"size"`
	Quantity    decimal.Decimal `json:"quantity"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	MeanMargin  decimal.Decimal `json:"mean_margin"`
}

// CashflowResponse is the full comparison report
type CashflowResponse struct {
	Chart    []DailyFlow    `json:"chart"`
	Previous CashFlowPeriod `json:"previous"`
	Current  CashFlowPeriod `json:"current"`
	Usage    []UsageRow     `json:"usage"`
	Margins  []MarginRow    `json:"margins"`
}

// window is an inclusive full-day span
type window struct {
	start time.Time // 00:00:00 of the first day
	end   time.Time // start of the day after the last day, exclusive
}

func (w window) lastDay() time.Time {
	return w.end.AddDate(0, 0, -1)
}

func (w window) days() int {
	return int(w.end.Sub(w.start).Hours() / 24)
}

// parseWindow normalizes the requested dates to full-day bounds and
// derives the immediately preceding window of equal length.
func parseWindow(startDate, endDate string) (current, previous window, err error) {
	start, err := time.ParseInLocation(dayLayout, startDate, time.Local)
	if err != nil {
		return window{}, window{}, shared.NewValidationError("invalid start date %q", startDate)
	}
	end, err := time.ParseInLocation(dayLayout, endDate, time.Local)
	if err != nil {
		return window{}, window{}, shared.NewValidationError("invalid end date %q", endDate)
	}
	if end.Before(start) {
		return window{}, window{}, shared.NewValidationError("end date %s precedes start date %s", endDate, startDate)
	}

	current = window{start: start, end: end.AddDate(0, 0, 1)}
	deltaDays := current.days()
	previous = window{
		start: start.AddDate(0, 0, -deltaDays),
		end:   start,
	}
	return current, previous, nil
}

func parseReportLocations(raw []string) ([]catalog.Location, error) {
	out := make([]catalog.Location, 0, len(raw))
	for _, s := range raw {
		loc := catalog.Location(s)
		if !loc.IsValid() {
			return nil, shared.NewValidationError("unknown location code: %s", s)
		}
		out = append(out, loc)
	}
	return out, nil
}
